package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"richsnake_backend/internal/domain"
	"richsnake_backend/internal/logger"
)

// orderPayloadSep joins the telegram id and the payment row id into the
// single opaque invoice payload field the provider gives us.
const orderPayloadSep = "&&&"

// WebhookUpdate is the subset of a Telegram update the payment webhook
// cares about. Shapes are mutually exclusive in practice.
type WebhookUpdate struct {
	PreCheckoutQuery *PreCheckoutQuery `json:"pre_checkout_query,omitempty"`
	Message          *WebhookMessage   `json:"message,omitempty"`
}

type PreCheckoutQuery struct {
	ID string `json:"id"`
}

type WebhookMessage struct {
	SuccessfulPayment *SuccessfulPayment `json:"successful_payment,omitempty"`
}

type SuccessfulPayment struct {
	Currency       string `json:"currency"`
	TotalAmount    int64  `json:"total_amount"`
	InvoicePayload string `json:"invoice_payload"`
	ChargeID       string `json:"telegram_payment_charge_id"`
}

// WebhookOutcome is the business result of processing one delivery.
// The transport response stays 200 for everything except OutcomeNoUpdate,
// so the provider does not retry permanently unprocessable events.
type WebhookOutcome string

const (
	OutcomeApproved WebhookOutcome = "approved"  // pre-checkout acknowledged
	OutcomePaid     WebhookOutcome = "paid"      // payment flipped, subscription renewed
	OutcomeRejected WebhookOutcome = "rejected"  // duplicate, unknown or malformed payment
	OutcomeNoUpdate WebhookOutcome = "no_update" // payload shape not recognized
)

// PaymentStore is the slice of the payment repository the reconciler needs.
type PaymentStore interface {
	// MarkPaid flips the payment identified by (orderID, paymentID) from
	// pending to paid and replaces the owner's subscription rows with a
	// single active one expiring at expireTime, all in one transaction.
	// Returns domain.ErrNotFound or domain.ErrAlreadyPaid.
	MarkPaid(ctx context.Context, orderID string, paymentID int64, expireTime time.Time) error
}

// PreCheckoutAnswerer acknowledges pre-checkout queries upstream.
type PreCheckoutAnswerer interface {
	AnswerPreCheckout(queryID string, ok bool) error
}

type PaymentService struct {
	payments PaymentStore
	tg       PreCheckoutAnswerer
	subDays  int
	log      *slog.Logger
}

func NewPaymentService(payments PaymentStore, tg PreCheckoutAnswerer, subDays int) *PaymentService {
	return &PaymentService{
		payments: payments,
		tg:       tg,
		subDays:  subDays,
		log:      logger.With("component", "payment_service"),
	}
}

// HandleWebhook drives one provider callback to its outcome.
func (s *PaymentService) HandleWebhook(ctx context.Context, update WebhookUpdate) WebhookOutcome {
	switch {
	case update.PreCheckoutQuery != nil:
		return s.handlePreCheckout(update.PreCheckoutQuery)
	case update.Message != nil && update.Message.SuccessfulPayment != nil:
		return s.handleSuccessfulPayment(ctx, update.Message.SuccessfulPayment)
	default:
		return OutcomeNoUpdate
	}
}

// handlePreCheckout approves the checkout unconditionally. The provider
// auto-cancels unanswered queries, so an acknowledgment failure is logged
// and swallowed rather than surfaced, since retrying here only delays
// the inevitable cancellation.
func (s *PaymentService) handlePreCheckout(q *PreCheckoutQuery) WebhookOutcome {
	if q.ID == "" {
		s.log.Warn("pre-checkout query without id")
		return OutcomeApproved
	}

	if err := s.tg.AnswerPreCheckout(q.ID, true); err != nil {
		s.log.Error("failed to answer pre-checkout query", "query_id", q.ID, "error", err)
	}
	return OutcomeApproved
}

func (s *PaymentService) handleSuccessfulPayment(ctx context.Context, p *SuccessfulPayment) WebhookOutcome {
	orderID, paymentID, err := ParseOrderPayload(p.InvoicePayload)
	if err != nil {
		s.log.Error("malformed invoice payload", "payload", p.InvoicePayload)
		return OutcomeRejected
	}

	expire := time.Now().Add(time.Duration(s.subDays) * 24 * time.Hour)
	err = s.payments.MarkPaid(ctx, orderID, paymentID, expire)
	switch {
	case errors.Is(err, domain.ErrAlreadyPaid):
		// Duplicate delivery of the same order: no side effects.
		s.log.Warn("payment already marked as paid", "payment_id", paymentID, "order_id", orderID)
		return OutcomeRejected
	case errors.Is(err, domain.ErrNotFound):
		s.log.Error("payment not found for webhook", "payment_id", paymentID, "order_id", orderID)
		return OutcomeRejected
	case err != nil:
		s.log.Error("failed to reconcile payment", "payment_id", paymentID, "error", err)
		return OutcomeRejected
	}

	s.log.Info("payment reconciled, subscription renewed",
		"payment_id", paymentID, "order_id", orderID, "expire_time", expire)
	return OutcomePaid
}

// ParseOrderPayload splits the composite correlation key
// "{telegram_id}&&&{payment_row_id}" carried in the invoice payload.
func ParseOrderPayload(payload string) (orderID string, paymentID int64, err error) {
	parts := strings.Split(payload, orderPayloadSep)
	if len(parts) != 2 || parts[0] == "" {
		return "", 0, domain.ErrMalformedInput
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return "", 0, domain.ErrMalformedInput
	}
	return parts[0], id, nil
}

// BuildOrderPayload is the inverse of ParseOrderPayload, used when
// creating invoices.
func BuildOrderPayload(tgID, paymentID int64) string {
	return strconv.FormatInt(tgID, 10) + orderPayloadSep + strconv.FormatInt(paymentID, 10)
}
