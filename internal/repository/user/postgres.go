package user

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

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, `
SELECT id::text, name, email, phone, diet_preference, nano_points, created_at
FROM users
WHERE id = $1
`, id).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.DietPreference, &u.NanoPoints, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *postgresRepo) GrantPoints(ctx context.Context, userID string, delta int64, reason domain.LedgerReason) error {
	if delta <= 0 {
		return domain.Validationf("point grant must be positive")
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
UPDATE users
SET nano_points = nano_points + $1
WHERE id = $2
`, delta, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO loyalty_ledger (user_id, delta, reason)
VALUES ($1, $2, $3)
`, userID, delta, reason); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) LedgerByUser(ctx context.Context, userID string, limit, offset int) ([]domain.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id::text, user_id::text, delta, reason, COALESCE(order_id::text, ''), created_at
FROM loyalty_ledger
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Delta, &e.Reason, &e.OrderID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
