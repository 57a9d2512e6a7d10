package domain

import "time"

type User struct {
	ID            int64     `db:"id" json:"id"`
	TgID          int64     `db:"tg_id" json:"tg_id"`
	Username      string    `db:"username" json:"username"`
	FirstName     string    `db:"first_name" json:"first_name"`
	AvatarURL     string    `db:"avatar_url" json:"avatar,omitempty"`
	Score         int64     `db:"score" json:"score"`
	Balance       int64     `db:"balance" json:"balance"`
	Record        int64     `db:"record" json:"record"`
	WalletAddress string    `db:"wallet_address" json:"wallet_address,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
