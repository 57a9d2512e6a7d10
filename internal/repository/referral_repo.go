package repository

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"

	"richsnake_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	referralCodeLen     = 10
	referralCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

type ReferralRepository struct {
	db *pgxpool.Pool
}

func NewReferralRepository(db *pgxpool.Pool) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// GenerateReferralCode produces a random 10-character uppercase
// alphanumeric code.
func GenerateReferralCode() string {
	buf := make([]byte, referralCodeLen)
	max := big.NewInt(int64(len(referralCodeCharset)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the process is in no state to
			// serve anything.
			panic(err)
		}
		buf[i] = referralCodeCharset[n.Int64()]
	}
	return string(buf)
}

// GetOrCreateCode returns the user's referral code, generating it on
// first use. Codes are immutable once stored.
func (r *ReferralRepository) GetOrCreateCode(ctx context.Context, userID int64) (string, error) {
	var code string
	err := r.db.QueryRow(ctx,
		`SELECT code FROM referrals WHERE user_id = $1`, userID,
	).Scan(&code)
	if err == nil {
		return code, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	// Retry a few times in case the random code collides.
	for i := 0; i < 5; i++ {
		code = GenerateReferralCode()
		tag, err := r.db.Exec(ctx,
			`INSERT INTO referrals (user_id, code)
			 VALUES ($1, $2)
			 ON CONFLICT (user_id) DO NOTHING`,
			userID, code)
		if err != nil {
			continue
		}
		if tag.RowsAffected() == 0 {
			// Lost a race with a concurrent auth for the same user.
			err = r.db.QueryRow(ctx,
				`SELECT code FROM referrals WHERE user_id = $1`, userID,
			).Scan(&code)
			if err != nil {
				return "", err
			}
		}
		return code, nil
	}
	return "", errors.New("failed to generate referral code")
}

// GetReferrerByCode resolves a referral code to the owning user id.
func (r *ReferralRepository) GetReferrerByCode(ctx context.Context, code string) (int64, error) {
	var userID int64
	err := r.db.QueryRow(ctx,
		`SELECT user_id FROM referrals WHERE code = $1`, code,
	).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	return userID, err
}

// CreateReferredUser links a referred user to their referrer and credits
// the referrer's score, in one transaction. The unique referred_id index
// caps the credit at once per referred account; a repeat link is a no-op.
func (r *ReferralRepository) CreateReferredUser(ctx context.Context, referrerID, referredID, reward int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO referred_users (referrer_id, referred_id, earned_score)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (referred_id) DO NOTHING`,
		referrerID, referredID, reward)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return nil
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET score = score + $1 WHERE id = $2`,
		reward, referrerID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ReferredEntry is one referred user as shown to the referrer.
type ReferredEntry struct {
	Username  string `json:"user"`
	FirstName string `json:"first_name"`
	Avatar    string `json:"image,omitempty"`
	Earned    int64  `json:"coin"`
}

// ListReferred returns the users referred by referrerID and the total
// score they earned the referrer.
func (r *ReferralRepository) ListReferred(ctx context.Context, referrerID int64) ([]ReferredEntry, int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT COALESCE(u.username, ''), COALESCE(u.first_name, ''),
		       COALESCE(u.avatar_url, ''), ru.earned_score
		FROM referred_users ru
		JOIN users u ON u.id = ru.referred_id
		WHERE ru.referrer_id = $1
		ORDER BY ru.created_at DESC
	`, referrerID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []ReferredEntry
	var total int64
	for rows.Next() {
		var e ReferredEntry
		if err := rows.Scan(&e.Username, &e.FirstName, &e.Avatar, &e.Earned); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
		total += e.Earned
	}
	return entries, total, rows.Err()
}
