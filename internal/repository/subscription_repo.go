package repository

import (
	"context"
	"errors"
	"time"

	"richsnake_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// GetActive returns the user's current active subscription row.
func (r *SubscriptionRepository) GetActive(ctx context.Context, userID int64) (*domain.Subscription, error) {
	var s domain.Subscription
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, expire_time, active, created_at
		 FROM subscriptions
		 WHERE user_id = $1 AND active
		 ORDER BY expire_time DESC
		 LIMIT 1`, userID,
	).Scan(&s.ID, &s.UserID, &s.ExpireTime, &s.Active, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateTrial grants a fresh subscription without touching prior rows.
// Used only for brand-new users who cannot have any.
func (r *SubscriptionRepository) CreateTrial(ctx context.Context, userID int64, days int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO subscriptions (user_id, expire_time, active)
		 VALUES ($1, $2, true)`,
		userID, time.Now().Add(time.Duration(days)*24*time.Hour))
	return err
}

// PurchaseWithBalance debits the subscription cost from the user's
// balance and replaces their subscription rows, atomically. The guarded
// debit rejects concurrent overspends with ErrInsufficientBalance.
func (r *SubscriptionRepository) PurchaseWithBalance(ctx context.Context, userID, cost int64, expire time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE users SET balance = balance - $1 WHERE id = $2 AND balance >= $1`,
		cost, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientBalance
	}

	if err := replaceSubscriptionTx(ctx, tx, userID, expire); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// DeactivateExpired flips the active flag off for subscriptions past
// their expiry. Returns how many rows changed.
func (r *SubscriptionRepository) DeactivateExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE subscriptions SET active = false WHERE active AND expire_time < NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// replaceSubscriptionTx supersedes all of the user's subscription rows
// with a single active one inside the caller's transaction. Delete then
// insert keeps the "at most one operative subscription" invariant without
// relying on implicit cascades.
func replaceSubscriptionTx(ctx context.Context, tx pgx.Tx, userID int64, expire time.Time) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM subscriptions WHERE user_id = $1`, userID); err != nil {
		return err
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO subscriptions (user_id, expire_time, active)
		 VALUES ($1, $2, true)`,
		userID, expire)
	return err
}
