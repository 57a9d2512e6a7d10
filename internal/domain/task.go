package domain

import "time"

// RewardKind selects which user counter a task completion credits.
type RewardKind string

const (
	RewardCoin   RewardKind = "coin"   // credits score
	RewardDollar RewardKind = "dollar" // credits spendable balance
)

type Task struct {
	ID          int64      `db:"id" json:"id"`
	Source      string     `db:"source" json:"source"`
	SourceImage string     `db:"source_image" json:"source_image,omitempty"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Link        string     `db:"link" json:"link"`
	Reward      int64      `db:"reward" json:"reward"`
	RewardKind  RewardKind `db:"reward_kind" json:"reward_kind"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// UserTask marks a task as completed by a user. At most one row exists
// per (user, task) pair.
type UserTask struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	TaskID      int64     `db:"task_id" json:"task_id"`
	CompletedAt time.Time `db:"completed_at" json:"completed_at"`
}
