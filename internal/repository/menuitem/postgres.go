package menuitem

import (
	"context"
	"encoding/json"
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

const itemColumns = `id::text, restaurant_id::text, chef_id::text, name, description, price, is_veg, category, add_ons, spice_levels, preparation_mins, created_at`

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	row := r.pool.QueryRow(ctx, `
SELECT `+itemColumns+`
FROM menu_items
WHERE id = $1
`, id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *postgresRepo) ListByVendor(ctx context.Context, vendor domain.VendorRef) ([]domain.MenuItem, error) {
	var q string
	switch vendor.Kind {
	case domain.VendorRestaurant:
		q = `SELECT ` + itemColumns + ` FROM menu_items WHERE restaurant_id = $1 ORDER BY created_at ASC`
	case domain.VendorChef:
		q = `SELECT ` + itemColumns + ` FROM menu_items WHERE chef_id = $1 ORDER BY created_at ASC`
	default:
		return nil, domain.Validationf("unknown vendor kind %q", vendor.Kind)
	}

	rows, err := r.pool.Query(ctx, q, vendor.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func scanItem(row pgx.Row) (*domain.MenuItem, error) {
	var (
		item         domain.MenuItem
		restaurantID *string
		chefID       *string
		addOnsRaw    []byte
		spiceRaw     []byte
	)
	if err := row.Scan(
		&item.ID,
		&restaurantID,
		&chefID,
		&item.Name,
		&item.Description,
		&item.Price,
		&item.IsVeg,
		&item.Category,
		&addOnsRaw,
		&spiceRaw,
		&item.PreparationMins,
		&item.CreatedAt,
	); err != nil {
		return nil, err
	}

	vendor, err := domain.VendorRefFromNullable(restaurantID, chefID)
	if err != nil {
		return nil, err
	}
	item.Vendor = vendor

	if len(addOnsRaw) > 0 {
		if err := json.Unmarshal(addOnsRaw, &item.AddOns); err != nil {
			return nil, err
		}
	}
	if len(spiceRaw) > 0 {
		if err := json.Unmarshal(spiceRaw, &item.SpiceLevels); err != nil {
			return nil, err
		}
	}
	return &item, nil
}
