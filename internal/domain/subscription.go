package domain

import "time"

// Subscription is a time-boxed entitlement. A user may accumulate
// historical rows; purchasing replaces them so only one row stays active.
type Subscription struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	ExpireTime time.Time `db:"expire_time" json:"expire_time"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// IsActive reports whether the subscription entitles the user right now.
func (s *Subscription) IsActive(now time.Time) bool {
	return s.Active && s.ExpireTime.After(now)
}
