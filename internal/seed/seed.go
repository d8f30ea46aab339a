package seed

import (
	"context"
	"encoding/json"
	"fmt"

	"nanoeats/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type menuItemSeed struct {
	Name        string
	Description string
	Price       int64
	IsVeg       bool
	Category    string
	AddOns      []domain.AddOn
	SpiceLevels []string
	PrepMins    int
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	restaurantID, err := ensureVendor(ctx, pool, "restaurants", "Nano Biryani House", false)
	if err != nil {
		return fmt.Errorf("ensure restaurant: %w", err)
	}
	chefID, err := ensureVendor(ctx, pool, "chefs", "Chef Anita's Kitchen", true)
	if err != nil {
		return fmt.Errorf("ensure chef: %w", err)
	}

	restaurantItems := []menuItemSeed{
		{
			Name:        "Chicken Biryani",
			Description: "Slow-cooked basmati with chicken and saffron",
			Price:       250,
			IsVeg:       false,
			Category:    "mains",
			AddOns: []domain.AddOn{
				{Name: "extra raita", Price: 20, IsVeg: true},
				{Name: "boiled egg", Price: 15, IsVeg: false},
			},
			SpiceLevels: []string{"mild", "medium", "hot"},
			PrepMins:    35,
		},
		{
			Name:        "Paneer Tikka",
			Description: "Charred cottage cheese skewers",
			Price:       180,
			IsVeg:       true,
			Category:    "starters",
			AddOns:      []domain.AddOn{{Name: "mint chutney", Price: 10, IsVeg: true}},
			SpiceLevels: []string{"medium", "hot"},
			PrepMins:    20,
		},
	}
	chefItems := []menuItemSeed{
		{
			Name:        "Home-style Dal Tadka",
			Description: "Yellow lentils tempered with ghee and cumin",
			Price:       120,
			IsVeg:       true,
			Category:    "mains",
			SpiceLevels: []string{"mild", "medium"},
			PrepMins:    25,
		},
	}

	for _, it := range restaurantItems {
		if err := upsertMenuItem(ctx, pool, "restaurant_id", restaurantID, it); err != nil {
			return fmt.Errorf("upsert menu item %s: %w", it.Name, err)
		}
	}
	for _, it := range chefItems {
		if err := upsertMenuItem(ctx, pool, "chef_id", chefID, it); err != nil {
			return fmt.Errorf("upsert menu item %s: %w", it.Name, err)
		}
	}

	userID, err := ensureUser(ctx, pool, "Demo User", "demo@nanoeats.test", "+911234567890", 100)
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	if err := ensureAddress(ctx, pool, userID); err != nil {
		return fmt.Errorf("ensure address: %w", err)
	}

	if err := ensurePromos(ctx, pool); err != nil {
		return fmt.Errorf("ensure promos: %w", err)
	}

	return nil
}

func ensureVendor(ctx context.Context, pool *pgxpool.Pool, table, name string, vegOnly bool) (string, error) {
	q := fmt.Sprintf(`
INSERT INTO %s (name, is_veg_only)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`, table)
	if _, err := pool.Exec(ctx, q, name, vegOnly); err != nil {
		return "", err
	}

	var id string
	sel := fmt.Sprintf(`SELECT id::text FROM %s WHERE name = $1 LIMIT 1`, table)
	if err := pool.QueryRow(ctx, sel, name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertMenuItem(ctx context.Context, pool *pgxpool.Pool, vendorCol, vendorID string, it menuItemSeed) error {
	addOns, err := json.Marshal(it.AddOns)
	if err != nil {
		return err
	}
	if it.AddOns == nil {
		addOns = []byte("[]")
	}
	spiceLevels, err := json.Marshal(it.SpiceLevels)
	if err != nil {
		return err
	}
	if it.SpiceLevels == nil {
		spiceLevels = []byte("[]")
	}

	var exists bool
	sel := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM menu_items WHERE %s = $1 AND name = $2)`, vendorCol)
	if err := pool.QueryRow(ctx, sel, vendorID, it.Name).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}

	q := fmt.Sprintf(`
INSERT INTO menu_items (%s, name, description, price, is_veg, category, add_ons, spice_levels, preparation_mins)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`, vendorCol)
	_, err = pool.Exec(ctx, q, vendorID, it.Name, it.Description, it.Price, it.IsVeg, it.Category, addOns, spiceLevels, it.PrepMins)
	return err
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, name, email, phone string, points int64) (string, error) {
	const q = `
INSERT INTO users (name, email, phone, nano_points)
VALUES ($1, $2, $3, $4)
ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, name, email, phone, points).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func ensureAddress(ctx context.Context, pool *pgxpool.Pool, userID string) error {
	var exists bool
	if err := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM addresses WHERE user_id = $1)`, userID).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}

	const q = `
INSERT INTO addresses (user_id, label, line1, city, pincode, lat, lng)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err := pool.Exec(ctx, q, userID, "home", "221B Residency Road", "Bengaluru", "560025", 12.9716, 77.5946)
	return err
}

func ensurePromos(ctx context.Context, pool *pgxpool.Pool) error {
	const q = `
INSERT INTO promo_codes (code, description, discount_type, discount_value, max_discount, min_order_value, expiry_date, usage_limit, first_order_only)
VALUES
    ('WELCOME50', 'Flat 50 off your first order', 'fixed', 50, NULL, 200, now() + interval '90 days', NULL, true),
    ('SAVE20', '20 percent off up to 100', 'percentage', 20, 100, 300, now() + interval '30 days', 500, false)
ON CONFLICT (code) DO NOTHING
`
	_, err := pool.Exec(ctx, q)
	return err
}
