package handlers

import (
	"richsnake_backend/internal/repository"
	"richsnake_backend/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TelegramAPI is what the handlers need from the Telegram Bot API client.
type TelegramAPI interface {
	AnswerPreCheckout(queryID string, ok bool) error
	CreateInvoiceLink(title, description, payload string, amount int64) (string, error)
	UserPhotoURL(tgID int64) (string, error)
}

// HandlerConfig carries the tunable economics of the app.
type HandlerConfig struct {
	BotToken          string
	TrialDays         int
	SubscriptionDays  int
	SubscriptionPrice int64 // invoice amount in Stars
	ReferralReward    int64
}

type Handler struct {
	DB  *pgxpool.Pool
	Cfg HandlerConfig

	Users         *repository.UserRepository
	Tasks         *repository.TaskRepository
	Referrals     *repository.ReferralRepository
	Subscriptions *repository.SubscriptionRepository
	Payments      *repository.PaymentRepository
	Withdrawals   *repository.WithdrawalRepository
	Prizes        *repository.PrizeRepository

	PaymentService *service.PaymentService
	InvoiceService *service.InvoiceService
	Telegram       TelegramAPI
}

func NewHandler(db *pgxpool.Pool, cfg HandlerConfig, tg TelegramAPI) *Handler {
	payments := repository.NewPaymentRepository(db)
	return &Handler{
		DB:             db,
		Cfg:            cfg,
		Users:          repository.NewUserRepository(db),
		Tasks:          repository.NewTaskRepository(db),
		Referrals:      repository.NewReferralRepository(db),
		Subscriptions:  repository.NewSubscriptionRepository(db),
		Payments:       payments,
		Withdrawals:    repository.NewWithdrawalRepository(db),
		Prizes:         repository.NewPrizeRepository(db),
		PaymentService: service.NewPaymentService(payments, tg, cfg.SubscriptionDays),
		InvoiceService: service.NewInvoiceService(payments, tg, cfg.SubscriptionPrice, cfg.SubscriptionDays),
		Telegram:       tg,
	}
}

// getUserID extracts the authenticated user id set by the JWT middleware.
func getUserID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
