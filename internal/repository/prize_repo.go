package repository

import (
	"context"

	"richsnake_backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PrizeRepository struct {
	db *pgxpool.Pool
}

func NewPrizeRepository(db *pgxpool.Pool) *PrizeRepository {
	return &PrizeRepository{db: db}
}

func (r *PrizeRepository) List(ctx context.Context) ([]domain.Prize, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title, description, COALESCE(image, ''), quantity
		 FROM prizes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prizes []domain.Prize
	for rows.Next() {
		var p domain.Prize
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Image, &p.Quantity); err != nil {
			return nil, err
		}
		prizes = append(prizes, p)
	}
	return prizes, rows.Err()
}
