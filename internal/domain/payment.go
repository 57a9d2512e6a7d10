package domain

import "time"

// PaymentStatus transitions are monotonic: pending -> paid, one way.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Payment is one invoice attempt against the payment provider. OrderID
// carries the owning user's telegram id; together with the row id it forms
// the composite correlation key embedded in the invoice payload.
type Payment struct {
	ID        int64         `db:"id" json:"id"`
	UserID    int64         `db:"user_id" json:"user_id"`
	OrderID   string        `db:"order_id" json:"order_id"`
	Amount    int64         `db:"amount" json:"amount"`
	Status    PaymentStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}
