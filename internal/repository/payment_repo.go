package repository

import (
	"context"
	"errors"
	"time"

	"richsnake_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a pending payment and fills in its row id.
func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO payments (user_id, order_id, amount, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		p.UserID, p.OrderID, p.Amount, p.Status,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	var p domain.Payment
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, order_id, amount, status, created_at
		 FROM payments WHERE id = $1`, id,
	).Scan(&p.ID, &p.UserID, &p.OrderID, &p.Amount, &p.Status, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkPaid flips the payment identified by the composite correlation key
// to paid and replaces the owner's subscription with a single active row
// expiring at expireTime. The whole unit commits or rolls back together:
// a paid payment always comes with its entitlement.
//
// The row lock taken by FOR UPDATE serializes concurrent deliveries of
// the same order; the loser observes status = paid and gets
// ErrAlreadyPaid with no side effects.
func (r *PaymentRepository) MarkPaid(ctx context.Context, orderID string, paymentID int64, expireTime time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var userID int64
	var status domain.PaymentStatus
	err = tx.QueryRow(ctx,
		`SELECT user_id, status FROM payments
		 WHERE id = $1 AND order_id = $2
		 FOR UPDATE`,
		paymentID, orderID,
	).Scan(&userID, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	if status == domain.PaymentStatusPaid {
		return domain.ErrAlreadyPaid
	}

	if _, err := tx.Exec(ctx,
		`UPDATE payments SET status = $1 WHERE id = $2`,
		domain.PaymentStatusPaid, paymentID); err != nil {
		return err
	}

	if err := replaceSubscriptionTx(ctx, tx, userID, expireTime); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
