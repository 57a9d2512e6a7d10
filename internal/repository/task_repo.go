package repository

import (
	"context"
	"errors"

	"richsnake_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, source, COALESCE(source_image, ''), title, description, link,
	reward, reward_kind, created_at`

func scanTasks(rows pgx.Rows) ([]domain.Task, error) {
	var tasks []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(
			&t.ID, &t.Source, &t.SourceImage, &t.Title, &t.Description, &t.Link,
			&t.Reward, &t.RewardKind, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// ListForUser splits the catalogue into tasks the user has completed and
// tasks still open to them.
func (r *TaskRepository) ListForUser(ctx context.Context, userID int64) (completed, incomplete []domain.Task, err error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE id IN (SELECT task_id FROM user_tasks WHERE user_id = $1)
		 ORDER BY id`, userID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	if completed, err = scanTasks(rows); err != nil {
		return nil, nil, err
	}

	rows, err = r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE id NOT IN (SELECT task_id FROM user_tasks WHERE user_id = $1)
		 ORDER BY id`, userID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	if incomplete, err = scanTasks(rows); err != nil {
		return nil, nil, err
	}

	return completed, incomplete, nil
}

// Complete marks the task done for the user and transfers the reward,
// all in one transaction. The unique (user, task) index makes the reward
// strictly one-time: a duplicate attempt fails with ErrAlreadyCompleted
// and mutates nothing.
func (r *TaskRepository) Complete(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var t domain.Task
	err = tx.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, taskID,
	).Scan(&t.ID, &t.Source, &t.SourceImage, &t.Title, &t.Description, &t.Link,
		&t.Reward, &t.RewardKind, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	tag, err := tx.Exec(ctx,
		`INSERT INTO user_tasks (user_id, task_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, task_id) DO NOTHING`,
		userID, taskID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrAlreadyCompleted
	}

	column := "score"
	if t.RewardKind == domain.RewardDollar {
		column = "balance"
	}
	tag, err = tx.Exec(ctx,
		`UPDATE users SET `+column+` = `+column+` + $1 WHERE id = $2`,
		t.Reward, userID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &t, nil
}
