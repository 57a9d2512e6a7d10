package repository

import (
	"context"
	"errors"

	"richsnake_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, tg_id, COALESCE(username, ''), COALESCE(first_name, ''),
	COALESCE(avatar_url, ''), score, balance, record, COALESCE(wallet_address, ''), created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID, &u.TgID, &u.Username, &u.FirstName,
		&u.AvatarURL, &u.Score, &u.Balance, &u.Record, &u.WalletAddress, &u.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByTgID(ctx context.Context, tgID int64) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE tg_id = $1`, tgID))
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// CreateOrUpdate upserts a user by telegram id, refreshing the display
// fields on every auth. Reports whether the row was newly inserted
// (xmax = 0 only holds for freshly inserted tuples).
func (r *UserRepository) CreateOrUpdate(ctx context.Context, u *domain.User) (bool, error) {
	var created bool
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (tg_id, username, first_name)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (tg_id) DO UPDATE SET username = $2, first_name = $3
		 RETURNING id, score, balance, record, COALESCE(wallet_address, ''),
		           COALESCE(avatar_url, ''), created_at, (xmax = 0)`,
		u.TgID, u.Username, u.FirstName,
	).Scan(&u.ID, &u.Score, &u.Balance, &u.Record, &u.WalletAddress,
		&u.AvatarURL, &u.CreatedAt, &created)
	return created, err
}

func (r *UserRepository) SetAvatar(ctx context.Context, id int64, url string) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET avatar_url = $1 WHERE id = $2`, url, id)
	return err
}

func (r *UserRepository) UpdateWallet(ctx context.Context, id int64, address string) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET wallet_address = $1 WHERE id = $2`, address, id)
	return err
}

// AddScore adds delta to the user's score and keeps the best single
// submission in record. Returns the new score.
func (r *UserRepository) AddScore(ctx context.Context, id int64, delta int64) (int64, error) {
	var score int64
	err := r.db.QueryRow(ctx,
		`UPDATE users SET score = score + $1, record = GREATEST(record, $1)
		 WHERE id = $2 RETURNING score`,
		delta, id,
	).Scan(&score)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	return score, err
}

// SetScore overwrites the user's score.
func (r *UserRepository) SetScore(ctx context.Context, id int64, score int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET score = $1 WHERE id = $2`, score, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LeaderboardEntry is one row of a ranked listing.
type LeaderboardEntry struct {
	Rank int         `json:"rank"`
	User domain.User `json:"user"`
}

// GetTopByScore returns users ordered by score desc.
func (r *UserRepository) GetTopByScore(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	return r.top(ctx, "score", limit)
}

// GetTopByBalance returns users ordered by spendable balance desc.
func (r *UserRepository) GetTopByBalance(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	return r.top(ctx, "balance", limit)
}

func (r *UserRepository) top(ctx context.Context, column string, limit int) ([]LeaderboardEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY `+column+` DESC, id ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	rank := 1
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, LeaderboardEntry{Rank: rank, User: *u})
		rank++
	}
	return entries, rows.Err()
}

// GetRankByScore returns the user's position in the score leaderboard.
func (r *UserRepository) GetRankByScore(ctx context.Context, id int64) (int, error) {
	return r.rank(ctx, "score", id)
}

// GetRankByBalance returns the user's position in the balance leaderboard.
func (r *UserRepository) GetRankByBalance(ctx context.Context, id int64) (int, error) {
	return r.rank(ctx, "balance", id)
}

func (r *UserRepository) rank(ctx context.Context, column string, id int64) (int, error) {
	var rank int
	err := r.db.QueryRow(ctx, `
		SELECT rank FROM (
			SELECT id, RANK() OVER (ORDER BY `+column+` DESC) AS rank FROM users
		) ranked WHERE id = $1
	`, id).Scan(&rank)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	return rank, err
}
