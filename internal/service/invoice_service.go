package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"richsnake_backend/internal/domain"
	"richsnake_backend/internal/logger"
)

// PaymentCreator persists new pending payments.
type PaymentCreator interface {
	Create(ctx context.Context, p *domain.Payment) error
}

// InvoiceLinker creates payment links upstream.
type InvoiceLinker interface {
	CreateInvoiceLink(title, description, payload string, amount int64) (string, error)
}

// InvoiceService opens the in-platform payment flow: it records a pending
// Payment row and asks Telegram for an invoice link carrying the composite
// order payload, which the webhook later uses to correlate the callback.
type InvoiceService struct {
	payments PaymentCreator
	tg       InvoiceLinker
	price    int64
	subDays  int
	log      *slog.Logger
}

func NewInvoiceService(payments PaymentCreator, tg InvoiceLinker, price int64, subDays int) *InvoiceService {
	return &InvoiceService{
		payments: payments,
		tg:       tg,
		price:    price,
		subDays:  subDays,
		log:      logger.With("component", "invoice_service"),
	}
}

// CreateSubscriptionInvoice returns a payment link for the user's
// subscription purchase.
func (s *InvoiceService) CreateSubscriptionInvoice(ctx context.Context, user *domain.User) (string, error) {
	payment := &domain.Payment{
		UserID:  user.ID,
		OrderID: strconv.FormatInt(user.TgID, 10),
		Amount:  s.price,
		Status:  domain.PaymentStatusPending,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return "", err
	}

	payload := BuildOrderPayload(user.TgID, payment.ID)
	title := "Premium subscription"
	description := fmt.Sprintf("%d days of premium access", s.subDays)

	link, err := s.tg.CreateInvoiceLink(title, description, payload, s.price)
	if err != nil {
		s.log.Error("failed to create invoice link", "payment_id", payment.ID, "error", err)
		return "", domain.ErrUpstreamUnavailable
	}

	s.log.Info("invoice link created", "payment_id", payment.ID, "user_id", user.ID)
	return link, nil
}
