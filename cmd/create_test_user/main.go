package main

import (
	"context"
	"log"
	"os"

	"richsnake_backend/internal/db"
	"richsnake_backend/internal/domain"
	"richsnake_backend/internal/repository"
	"richsnake_backend/internal/service"

	"github.com/joho/godotenv"
)

// Creates a local test user with a referral code, a trial subscription
// and a couple of sample tasks, then prints a ready-to-use bearer token.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	ctx := context.Background()
	users := repository.NewUserRepository(pool)
	referrals := repository.NewReferralRepository(pool)
	subs := repository.NewSubscriptionRepository(pool)

	u := &domain.User{
		TgID:      1234567890,
		Username:  "testuser",
		FirstName: "Tester",
	}
	created, err := users.CreateOrUpdate(ctx, u)
	if err != nil {
		log.Fatalf("create user failed: %v", err)
	}
	if created {
		log.Printf("user created id=%d\n", u.ID)
		if err := subs.CreateTrial(ctx, u.ID, 3); err != nil {
			log.Fatalf("create trial failed: %v", err)
		}
	} else {
		log.Printf("user already exists id=%d\n", u.ID)
	}

	code, err := referrals.GetOrCreateCode(ctx, u.ID)
	if err != nil {
		log.Fatalf("referral code failed: %v", err)
	}
	log.Printf("referral code=%s\n", code)

	seedTasks := []struct {
		source, title string
		reward        int64
		kind          domain.RewardKind
	}{
		{"telegram", "Join our channel", 500, domain.RewardCoin},
		{"partner", "Try the partner app", 1, domain.RewardDollar},
	}
	for _, s := range seedTasks {
		if _, err := pool.Exec(ctx,
			`INSERT INTO tasks (source, title, reward, reward_kind)
			 SELECT $1, $2, $3, $4
			 WHERE NOT EXISTS (SELECT 1 FROM tasks WHERE title = $2)`,
			s.source, s.title, s.reward, string(s.kind)); err != nil {
			log.Fatalf("seed task %q failed: %v", s.title, err)
		}
	}

	service.InitJWT()
	token, err := service.GenerateJWT(u.ID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
