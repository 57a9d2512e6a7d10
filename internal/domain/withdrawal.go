package domain

import "time"

type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusApproved WithdrawalStatus = "approved"
	WithdrawalStatusRejected WithdrawalStatus = "rejected"
)

// WithdrawRequest is a user's request to cash out balance. Creating one
// debits the balance up front so concurrent requests cannot double-spend.
type WithdrawRequest struct {
	ID            int64            `db:"id" json:"id"`
	UserID        int64            `db:"user_id" json:"user_id"`
	Amount        int64            `db:"amount" json:"amount"`
	WalletAddress string           `db:"wallet_address" json:"wallet_address"`
	Status        WithdrawalStatus `db:"status" json:"status"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
}
