package integration

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"richsnake_backend/internal/domain"
	"richsnake_backend/internal/repository"
)

func TestMarkPaid_RenewsSubscriptionOnce(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	user := createUser(t, db)
	payments := repository.NewPaymentRepository(db)
	subs := repository.NewSubscriptionRepository(db)

	p := &domain.Payment{
		UserID:  user.ID,
		OrderID: strconv.FormatInt(user.TgID, 10),
		Amount:  1,
		Status:  domain.PaymentStatusPending,
	}
	if err := payments.Create(ctx, p); err != nil {
		t.Fatalf("create payment: %v", err)
	}

	expire := time.Now().Add(30 * 24 * time.Hour)
	if err := payments.MarkPaid(ctx, p.OrderID, p.ID, expire); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	got, err := payments.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get payment: %v", err)
	}
	if got.Status != domain.PaymentStatusPaid {
		t.Fatalf("status = %q, want paid", got.Status)
	}

	sub, err := subs.GetActive(ctx, user.ID)
	if err != nil {
		t.Fatalf("get active subscription: %v", err)
	}
	if !sub.IsActive(time.Now()) {
		t.Fatalf("subscription not active: %+v", sub)
	}
	if diff := sub.ExpireTime.Sub(expire); diff < -time.Second || diff > time.Second {
		t.Fatalf("expire_time %v, want %v", sub.ExpireTime, expire)
	}

	// duplicate delivery of the same order: rejected, nothing changes
	err = payments.MarkPaid(ctx, p.OrderID, p.ID, time.Now().Add(60*24*time.Hour))
	if !errors.Is(err, domain.ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid, got %v", err)
	}
	sub2, err := subs.GetActive(ctx, user.ID)
	if err != nil {
		t.Fatalf("get active subscription: %v", err)
	}
	if !sub2.ExpireTime.Equal(sub.ExpireTime) {
		t.Fatalf("duplicate delivery moved expiry: %v -> %v", sub.ExpireTime, sub2.ExpireTime)
	}
}

func TestMarkPaid_UnknownCorrelation(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	user := createUser(t, db)
	payments := repository.NewPaymentRepository(db)

	p := &domain.Payment{
		UserID:  user.ID,
		OrderID: strconv.FormatInt(user.TgID, 10),
		Amount:  1,
		Status:  domain.PaymentStatusPending,
	}
	if err := payments.Create(ctx, p); err != nil {
		t.Fatalf("create payment: %v", err)
	}

	// right row id, wrong order id: the composite key must match as a whole
	err := payments.MarkPaid(ctx, "someone-else", p.ID, time.Now().Add(time.Hour))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	got, err := payments.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get payment: %v", err)
	}
	if got.Status != domain.PaymentStatusPending {
		t.Fatalf("status = %q, want pending", got.Status)
	}
}

func TestSubscriptionReplace_SingleActiveRow(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	user := createUser(t, db)
	setBalance(t, db, user.ID, 5)
	subs := repository.NewSubscriptionRepository(db)

	if err := subs.CreateTrial(ctx, user.ID, 3); err != nil {
		t.Fatalf("create trial: %v", err)
	}

	expire := time.Now().Add(30 * 24 * time.Hour)
	if err := subs.PurchaseWithBalance(ctx, user.ID, 1, expire); err != nil {
		t.Fatalf("purchase with balance: %v", err)
	}
	if balance := getBalance(t, db, user.ID); balance != 4 {
		t.Fatalf("balance = %d, want 4", balance)
	}

	// the trial row is replaced, not accumulated
	var n int
	if err := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE user_id = $1`, user.ID).Scan(&n); err != nil {
		t.Fatalf("count subscriptions: %v", err)
	}
	if n != 1 {
		t.Fatalf("%d subscription rows, want 1", n)
	}

	sub, err := subs.GetActive(ctx, user.ID)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if diff := sub.ExpireTime.Sub(expire); diff < -time.Second || diff > time.Second {
		t.Fatalf("expire_time %v, want %v", sub.ExpireTime, expire)
	}
}

func TestPurchaseWithBalance_Insufficient(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	user := createUser(t, db)
	subs := repository.NewSubscriptionRepository(db)

	err := subs.PurchaseWithBalance(ctx, user.ID, 1, time.Now().Add(time.Hour))
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if _, err := subs.GetActive(ctx, user.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected no subscription, got %v", err)
	}
}

func TestDeactivateExpired(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	user := createUser(t, db)
	subs := repository.NewSubscriptionRepository(db)

	if _, err := db.Exec(ctx,
		`INSERT INTO subscriptions (user_id, expire_time, active)
		 VALUES ($1, NOW() - INTERVAL '1 hour', true)`, user.ID); err != nil {
		t.Fatalf("insert expired subscription: %v", err)
	}

	if _, err := subs.DeactivateExpired(ctx); err != nil {
		t.Fatalf("deactivate expired: %v", err)
	}

	if _, err := subs.GetActive(ctx, user.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected expired subscription to be inactive, got %v", err)
	}
}
