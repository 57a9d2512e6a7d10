package domain

import "time"

// Referral holds a user's share code. Generated once on first auth,
// immutable afterwards.
type Referral struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Code      string    `db:"code" json:"code"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ReferredUser records that one user joined through another's code.
// A user can be referred at most once.
type ReferredUser struct {
	ID          int64     `db:"id" json:"id"`
	ReferrerID  int64     `db:"referrer_id" json:"referrer_id"`
	ReferredID  int64     `db:"referred_id" json:"referred_id"`
	EarnedScore int64     `db:"earned_score" json:"earned_score"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
