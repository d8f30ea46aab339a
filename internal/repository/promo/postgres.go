package promo

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

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	var (
		p          domain.PromoCode
		usersRaw   []byte
		vendorsRaw []byte
	)
	err := r.pool.QueryRow(ctx, `
SELECT id::text, code, description, discount_type, discount_value, max_discount,
       min_order_value, is_active, valid_from, expiry_date, usage_limit, usage_count,
       first_order_only, allowed_users, allowed_vendors
FROM promo_codes
WHERE code = $1
`, code).Scan(
		&p.ID,
		&p.Code,
		&p.Description,
		&p.DiscountType,
		&p.DiscountValue,
		&p.MaxDiscount,
		&p.MinOrderValue,
		&p.IsActive,
		&p.ValidFrom,
		&p.ExpiryDate,
		&p.UsageLimit,
		&p.UsageCount,
		&p.FirstOrderOnly,
		&usersRaw,
		&vendorsRaw,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if len(usersRaw) > 0 {
		if err := json.Unmarshal(usersRaw, &p.AllowedUsers); err != nil {
			return nil, err
		}
	}
	if len(vendorsRaw) > 0 {
		var refs []struct {
			RestaurantID string `json:"restaurantId"`
			ChefID       string `json:"chefId"`
		}
		if err := json.Unmarshal(vendorsRaw, &refs); err != nil {
			return nil, err
		}
		for _, raw := range refs {
			ref, err := domain.VendorRefFromIDs(raw.RestaurantID, raw.ChefID)
			if err != nil {
				continue
			}
			p.AllowedVendors = append(p.AllowedVendors, ref)
		}
	}
	return &p, nil
}
