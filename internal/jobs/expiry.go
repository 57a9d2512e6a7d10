package jobs

import (
	"context"
	"time"

	"richsnake_backend/internal/logger"
	"richsnake_backend/internal/repository"

	"github.com/go-co-op/gocron/v2"
)

// StartSubscriptionSweeper runs a periodic job that flips the active
// flag off for subscriptions past their expiry, so status reads and the
// admin side never see stale entitlements. Returns the scheduler so the
// caller can shut it down.
func StartSubscriptionSweeper(subs *repository.SubscriptionRepository, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			n, err := subs.DeactivateExpired(ctx)
			if err != nil {
				logger.Error("subscription sweep failed", "error", err)
				return
			}
			if n > 0 {
				logger.Info("deactivated expired subscriptions", "count", n)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	logger.Info("subscription sweeper started", "interval", interval)
	return sched, nil
}
