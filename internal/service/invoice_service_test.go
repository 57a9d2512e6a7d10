package service

import (
	"context"
	"errors"
	"testing"

	"richsnake_backend/internal/domain"
)

type fakePaymentCreator struct {
	err    error
	nextID int64
	last   *domain.Payment
}

func (f *fakePaymentCreator) Create(_ context.Context, p *domain.Payment) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	p.ID = f.nextID
	f.last = p
	return nil
}

type fakeInvoiceLinker struct {
	err     error
	payload string
	amount  int64
}

func (f *fakeInvoiceLinker) CreateInvoiceLink(_, _, payload string, amount int64) (string, error) {
	f.payload = payload
	f.amount = amount
	if f.err != nil {
		return "", f.err
	}
	return "https://t.me/invoice/abc", nil
}

func TestCreateSubscriptionInvoice(t *testing.T) {
	payments := &fakePaymentCreator{}
	tg := &fakeInvoiceLinker{}
	svc := NewInvoiceService(payments, tg, 5, 30)

	user := &domain.User{ID: 9, TgID: 42}
	link, err := svc.CreateSubscriptionInvoice(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if link == "" {
		t.Fatal("empty invoice link")
	}

	if payments.last == nil {
		t.Fatal("no payment persisted")
	}
	if payments.last.OrderID != "42" || payments.last.Status != domain.PaymentStatusPending {
		t.Fatalf("unexpected payment: %+v", payments.last)
	}
	if payments.last.Amount != 5 || tg.amount != 5 {
		t.Fatalf("price not forwarded: payment %d, invoice %d", payments.last.Amount, tg.amount)
	}

	// the invoice payload must round-trip back to this payment row
	orderID, paymentID, err := ParseOrderPayload(tg.payload)
	if err != nil {
		t.Fatalf("payload %q does not parse: %v", tg.payload, err)
	}
	if orderID != "42" || paymentID != payments.last.ID {
		t.Fatalf("payload %q correlates to (%q, %d)", tg.payload, orderID, paymentID)
	}
}

func TestCreateSubscriptionInvoice_UpstreamDown(t *testing.T) {
	payments := &fakePaymentCreator{}
	tg := &fakeInvoiceLinker{err: errors.New("telegram down")}
	svc := NewInvoiceService(payments, tg, 5, 30)

	_, err := svc.CreateSubscriptionInvoice(context.Background(), &domain.User{ID: 9, TgID: 42})
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestCreateSubscriptionInvoice_StoreError(t *testing.T) {
	storeErr := errors.New("db down")
	svc := NewInvoiceService(&fakePaymentCreator{err: storeErr}, &fakeInvoiceLinker{}, 5, 30)

	_, err := svc.CreateSubscriptionInvoice(context.Background(), &domain.User{ID: 9, TgID: 42})
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error to surface, got %v", err)
	}
}
