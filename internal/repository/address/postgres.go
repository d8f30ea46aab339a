package address

import (
	"context"
	"errors"

	"nanoeats/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetByID(ctx context.Context, userID, id string) (*domain.Address, error) {
	var a domain.Address
	var lat, lng *float64
	err := r.pool.QueryRow(ctx, `
SELECT id::text, label, line1, line2, city, pincode, lat, lng
FROM addresses
WHERE id = $1 AND user_id = $2
`, id, userID).Scan(&a.ID, &a.Label, &a.Line1, &a.Line2, &a.City, &a.Pincode, &lat, &lng)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if lat != nil {
		a.Lat = *lat
	}
	if lng != nil {
		a.Lng = *lng
	}
	return &a, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Address, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id::text, label, line1, line2, city, pincode, lat, lng
FROM addresses
WHERE user_id = $1
ORDER BY created_at ASC
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addrs []domain.Address
	for rows.Next() {
		var a domain.Address
		var lat, lng *float64
		if err := rows.Scan(&a.ID, &a.Label, &a.Line1, &a.Line2, &a.City, &a.Pincode, &lat, &lng); err != nil {
			return nil, err
		}
		if lat != nil {
			a.Lat = *lat
		}
		if lng != nil {
			a.Lng = *lng
		}
		addrs = append(addrs, a)
	}
	return addrs, rows.Err()
}
