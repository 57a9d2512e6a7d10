package domain

type Prize struct {
	ID          int64  `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	Image       string `db:"image" json:"image,omitempty"`
	Quantity    int    `db:"quantity" json:"quantity"`
}
