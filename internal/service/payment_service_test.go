package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"richsnake_backend/internal/domain"
)

type markPaidCall struct {
	orderID    string
	paymentID  int64
	expireTime time.Time
}

type fakePaymentStore struct {
	err   error
	calls []markPaidCall
}

func (f *fakePaymentStore) MarkPaid(_ context.Context, orderID string, paymentID int64, expireTime time.Time) error {
	f.calls = append(f.calls, markPaidCall{orderID, paymentID, expireTime})
	return f.err
}

type fakeAnswerer struct {
	err     error
	queries []string
}

func (f *fakeAnswerer) AnswerPreCheckout(queryID string, ok bool) error {
	if !ok {
		panic("pre-checkout must always be approved")
	}
	f.queries = append(f.queries, queryID)
	return f.err
}

func TestHandleWebhook_PreCheckout(t *testing.T) {
	tg := &fakeAnswerer{}
	svc := NewPaymentService(&fakePaymentStore{}, tg, 30)

	update := WebhookUpdate{PreCheckoutQuery: &PreCheckoutQuery{ID: "q-1"}}
	if got := svc.HandleWebhook(context.Background(), update); got != OutcomeApproved {
		t.Fatalf("outcome = %q, want %q", got, OutcomeApproved)
	}
	if len(tg.queries) != 1 || tg.queries[0] != "q-1" {
		t.Fatalf("unexpected answered queries: %v", tg.queries)
	}
}

func TestHandleWebhook_PreCheckoutAnswerFailureSwallowed(t *testing.T) {
	tg := &fakeAnswerer{err: errors.New("telegram down")}
	svc := NewPaymentService(&fakePaymentStore{}, tg, 30)

	update := WebhookUpdate{PreCheckoutQuery: &PreCheckoutQuery{ID: "q-2"}}
	if got := svc.HandleWebhook(context.Background(), update); got != OutcomeApproved {
		t.Fatalf("outcome = %q, want %q", got, OutcomeApproved)
	}
}

func TestHandleWebhook_SuccessfulPayment(t *testing.T) {
	store := &fakePaymentStore{}
	svc := NewPaymentService(store, &fakeAnswerer{}, 30)

	update := WebhookUpdate{Message: &WebhookMessage{
		SuccessfulPayment: &SuccessfulPayment{InvoicePayload: "42&&&7"},
	}}
	before := time.Now()
	if got := svc.HandleWebhook(context.Background(), update); got != OutcomePaid {
		t.Fatalf("outcome = %q, want %q", got, OutcomePaid)
	}

	if len(store.calls) != 1 {
		t.Fatalf("MarkPaid called %d times, want 1", len(store.calls))
	}
	call := store.calls[0]
	if call.orderID != "42" || call.paymentID != 7 {
		t.Fatalf("MarkPaid(%q, %d), want (\"42\", 7)", call.orderID, call.paymentID)
	}
	want := before.Add(30 * 24 * time.Hour)
	if diff := call.expireTime.Sub(want); diff < 0 || diff > time.Minute {
		t.Fatalf("expire time %v not ~30 days out", call.expireTime)
	}
}

func TestHandleWebhook_DuplicateDelivery(t *testing.T) {
	store := &fakePaymentStore{err: domain.ErrAlreadyPaid}
	svc := NewPaymentService(store, &fakeAnswerer{}, 30)

	update := WebhookUpdate{Message: &WebhookMessage{
		SuccessfulPayment: &SuccessfulPayment{InvoicePayload: "42&&&7"},
	}}
	if got := svc.HandleWebhook(context.Background(), update); got != OutcomeRejected {
		t.Fatalf("outcome = %q, want %q", got, OutcomeRejected)
	}
}

func TestHandleWebhook_UnknownOrder(t *testing.T) {
	store := &fakePaymentStore{err: domain.ErrNotFound}
	svc := NewPaymentService(store, &fakeAnswerer{}, 30)

	update := WebhookUpdate{Message: &WebhookMessage{
		SuccessfulPayment: &SuccessfulPayment{InvoicePayload: "42&&&7"},
	}}
	if got := svc.HandleWebhook(context.Background(), update); got != OutcomeRejected {
		t.Fatalf("outcome = %q, want %q", got, OutcomeRejected)
	}
}

func TestHandleWebhook_MalformedPayload(t *testing.T) {
	for _, payload := range []string{
		"",
		"noseparator",
		"&&&7",
		"42&&&",
		"42&&&abc",
		"42&&&0",
		"42&&&-3",
		"42&&&7&&&9",
	} {
		store := &fakePaymentStore{}
		svc := NewPaymentService(store, &fakeAnswerer{}, 30)

		update := WebhookUpdate{Message: &WebhookMessage{
			SuccessfulPayment: &SuccessfulPayment{InvoicePayload: payload},
		}}
		if got := svc.HandleWebhook(context.Background(), update); got != OutcomeRejected {
			t.Errorf("payload %q: outcome = %q, want %q", payload, got, OutcomeRejected)
		}
		if len(store.calls) != 0 {
			t.Errorf("payload %q: MarkPaid called on malformed payload", payload)
		}
	}
}

func TestHandleWebhook_UnrecognizedShape(t *testing.T) {
	svc := NewPaymentService(&fakePaymentStore{}, &fakeAnswerer{}, 30)

	for _, update := range []WebhookUpdate{
		{},
		{Message: &WebhookMessage{}},
	} {
		if got := svc.HandleWebhook(context.Background(), update); got != OutcomeNoUpdate {
			t.Fatalf("outcome = %q, want %q", got, OutcomeNoUpdate)
		}
	}
}

func TestOrderPayloadRoundTrip(t *testing.T) {
	payload := BuildOrderPayload(123456, 89)
	if payload != "123456&&&89" {
		t.Fatalf("payload = %q", payload)
	}

	orderID, paymentID, err := ParseOrderPayload(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if orderID != "123456" || paymentID != 89 {
		t.Fatalf("parsed (%q, %d)", orderID, paymentID)
	}
}
