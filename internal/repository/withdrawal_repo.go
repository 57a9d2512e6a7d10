package repository

import (
	"context"

	"richsnake_backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type WithdrawalRepository struct {
	db *pgxpool.Pool
}

func NewWithdrawalRepository(db *pgxpool.Pool) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// CreateWithDebit records a pending withdrawal request and debits the
// user's balance in the same transaction. The guarded debit is the
// double-spend barrier: of two concurrent requests racing over the same
// balance, the second sees the already-reduced balance and fails with
// ErrInsufficientBalance while the balance stays untouched.
func (r *WithdrawalRepository) CreateWithDebit(ctx context.Context, w *domain.WithdrawRequest) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE users SET balance = balance - $1 WHERE id = $2 AND balance >= $1`,
		w.Amount, w.UserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientBalance
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO withdraw_requests (user_id, amount, wallet_address, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		w.UserID, w.Amount, w.WalletAddress, w.Status,
	).Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListByUser returns the user's withdrawal requests, newest first.
func (r *WithdrawalRepository) ListByUser(ctx context.Context, userID int64) ([]domain.WithdrawRequest, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, amount, wallet_address, status, created_at
		 FROM withdraw_requests
		 WHERE user_id = $1
		 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []domain.WithdrawRequest
	for rows.Next() {
		var w domain.WithdrawRequest
		if err := rows.Scan(&w.ID, &w.UserID, &w.Amount, &w.WalletAddress, &w.Status, &w.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, w)
	}
	return requests, rows.Err()
}
