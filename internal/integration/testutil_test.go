package integration

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"richsnake_backend/internal/domain"
	"richsnake_backend/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

var tgIDSeq atomic.Int64

func init() {
	tgIDSeq.Store(time.Now().UnixNano())
}

// openDB connects to the test database or skips the test when none is
// configured.
func openDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	return db
}

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

// createUser inserts a fresh user with a unique telegram id.
func createUser(t *testing.T, db *pgxpool.Pool) *domain.User {
	t.Helper()
	u := &domain.User{
		TgID:      tgIDSeq.Add(1),
		Username:  "tester",
		FirstName: "Test",
	}
	created, err := repository.NewUserRepository(db).CreateOrUpdate(context.Background(), u)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if !created {
		t.Fatalf("user with tg_id %d already existed", u.TgID)
	}
	return u
}

func setBalance(t *testing.T, db *pgxpool.Pool, userID, balance int64) {
	t.Helper()
	if _, err := db.Exec(context.Background(),
		`UPDATE users SET balance = $1 WHERE id = $2`, balance, userID); err != nil {
		t.Fatalf("set balance: %v", err)
	}
}

func getBalance(t *testing.T, db *pgxpool.Pool, userID int64) int64 {
	t.Helper()
	var balance int64
	if err := db.QueryRow(context.Background(),
		`SELECT balance FROM users WHERE id = $1`, userID).Scan(&balance); err != nil {
		t.Fatalf("get balance: %v", err)
	}
	return balance
}
