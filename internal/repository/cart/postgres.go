package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

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

const cartColumns = `
c.id::text, c.user_id::text, c.restaurant_id::text, c.chef_id::text, c.version,
COALESCE(r.name, ch.name, ''), c.created_at, c.updated_at
`

const cartJoin = `
FROM carts c
LEFT JOIN restaurants r ON r.id = c.restaurant_id
LEFT JOIN chefs ch ON ch.id = c.chef_id
`

func (p *postgresRepo) GetByID(ctx context.Context, userID, cartID string) (*domain.Cart, error) {
	return p.fetchCart(ctx, p.pool, `
SELECT `+cartColumns+cartJoin+`
WHERE c.id = $1 AND c.user_id = $2
`, cartID, userID)
}

func (p *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Cart, error) {
	rows, err := p.pool.Query(ctx, `
SELECT `+cartColumns+cartJoin+`
WHERE c.user_id = $1
ORDER BY c.updated_at DESC
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var carts []domain.Cart
	for rows.Next() {
		cart, err := scanCart(rows)
		if err != nil {
			return nil, err
		}
		carts = append(carts, *cart)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range carts {
		lines, err := p.fetchLines(ctx, p.pool, carts[i].ID)
		if err != nil {
			return nil, err
		}
		carts[i].Lines = lines
	}
	return carts, nil
}

func (p *postgresRepo) AddLine(ctx context.Context, userID string, vendor domain.VendorRef, line domain.CartLine) (*domain.Cart, error) {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// The upsert row-locks the cart for the rest of the transaction,
	// serializing concurrent mutations on the same (user, vendor).
	var cartID string
	switch vendor.Kind {
	case domain.VendorRestaurant:
		err = tx.QueryRow(ctx, `
INSERT INTO carts (user_id, restaurant_id)
VALUES ($1, $2)
ON CONFLICT (user_id, restaurant_id) WHERE restaurant_id IS NOT NULL
DO UPDATE SET updated_at = now()
RETURNING id::text
`, userID, vendor.ID).Scan(&cartID)
	case domain.VendorChef:
		err = tx.QueryRow(ctx, `
INSERT INTO carts (user_id, chef_id)
VALUES ($1, $2)
ON CONFLICT (user_id, chef_id) WHERE chef_id IS NOT NULL
DO UPDATE SET updated_at = now()
RETURNING id::text
`, userID, vendor.ID).Scan(&cartID)
	default:
		return nil, domain.Validationf("unknown vendor kind %q", vendor.Kind)
	}
	if err != nil {
		return nil, err
	}

	custJSON, err := json.Marshal(line.Customization)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `
INSERT INTO cart_lines (cart_id, menu_item_id, item_name, is_veg, quantity, price, customization, customization_key)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (cart_id, menu_item_id, customization_key)
DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity, price = EXCLUDED.price
`, cartID, line.MenuItemID, line.ItemName, line.IsVeg, line.Quantity, line.Price, custJSON, line.Customization.Key()); err != nil {
		return nil, err
	}

	if err := bumpVersion(ctx, tx, cartID); err != nil {
		return nil, err
	}

	cart, err := p.fetchCart(ctx, tx, `
SELECT `+cartColumns+cartJoin+`
WHERE c.id = $1
`, cartID)
	if err != nil {
		return nil, err
	}
	return cart, tx.Commit(ctx)
}

func (p *postgresRepo) RemoveItem(ctx context.Context, userID, cartID, menuItemID string) (*domain.Cart, error) {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := lockCart(ctx, tx, userID, cartID); err != nil {
		return nil, err
	}

	cmd, err := tx.Exec(ctx, `
DELETE FROM cart_lines
WHERE cart_id = $1 AND menu_item_id = $2
`, cartID, menuItemID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.NotFoundf("item not found in cart")
	}

	var remaining int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM cart_lines WHERE cart_id = $1`, cartID).Scan(&remaining); err != nil {
		return nil, err
	}

	// Empty carts must not persist; they hold the one-cart-per-vendor
	// slot hostage.
	if remaining == 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM carts WHERE id = $1`, cartID); err != nil {
			return nil, err
		}
		return nil, tx.Commit(ctx)
	}

	if err := bumpVersion(ctx, tx, cartID); err != nil {
		return nil, err
	}
	cart, err := p.fetchCart(ctx, tx, `
SELECT `+cartColumns+cartJoin+`
WHERE c.id = $1
`, cartID)
	if err != nil {
		return nil, err
	}
	return cart, tx.Commit(ctx)
}

func (p *postgresRepo) ReplaceItem(ctx context.Context, userID, cartID, menuItemID string, quantity int, line *domain.CartLine) (*domain.Cart, error) {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := lockCart(ctx, tx, userID, cartID); err != nil {
		return nil, err
	}

	if line != nil {
		// Re-customized update collapses the item's lines into one.
		if _, err := tx.Exec(ctx, `
DELETE FROM cart_lines
WHERE cart_id = $1 AND menu_item_id = $2
`, cartID, menuItemID); err != nil {
			return nil, err
		}
		custJSON, err := json.Marshal(line.Customization)
		if err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_lines (cart_id, menu_item_id, item_name, is_veg, quantity, price, customization, customization_key)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, cartID, menuItemID, line.ItemName, line.IsVeg, quantity, line.Price, custJSON, line.Customization.Key()); err != nil {
			return nil, err
		}
	} else {
		cmd, err := tx.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1
WHERE cart_id = $2 AND menu_item_id = $3
`, quantity, cartID, menuItemID)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			return nil, domain.NotFoundf("item not found in cart")
		}
	}

	if err := bumpVersion(ctx, tx, cartID); err != nil {
		return nil, err
	}
	cart, err := p.fetchCart(ctx, tx, `
SELECT `+cartColumns+cartJoin+`
WHERE c.id = $1
`, cartID)
	if err != nil {
		return nil, err
	}
	return cart, tx.Commit(ctx)
}

func (p *postgresRepo) Delete(ctx context.Context, userID, cartID string) error {
	cmd, err := p.pool.Exec(ctx, `
DELETE FROM carts
WHERE id = $1 AND user_id = $2
`, cartID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (p *postgresRepo) DeleteInactiveSince(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := p.pool.Exec(ctx, `
DELETE FROM carts
WHERE updated_at < $1
`, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// lockCart takes the cart's row lock and verifies ownership.
func lockCart(ctx context.Context, tx pgx.Tx, userID, cartID string) error {
	var id string
	err := tx.QueryRow(ctx, `
SELECT id::text
FROM carts
WHERE id = $1 AND user_id = $2
FOR UPDATE
`, cartID, userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func bumpVersion(ctx context.Context, tx pgx.Tx, cartID string) error {
	_, err := tx.Exec(ctx, `
UPDATE carts
SET version = version + 1, updated_at = now()
WHERE id = $1
`, cartID)
	return err
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (p *postgresRepo) fetchCart(ctx context.Context, q queryer, cartQuery string, args ...any) (*domain.Cart, error) {
	cart, err := scanCart(q.QueryRow(ctx, cartQuery, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	lines, err := p.fetchLines(ctx, q, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Lines = lines
	return cart, nil
}

func (p *postgresRepo) fetchLines(ctx context.Context, q queryer, cartID string) ([]domain.CartLine, error) {
	rows, err := q.Query(ctx, `
SELECT id::text, cart_id::text, menu_item_id::text, item_name, is_veg, quantity, price, customization, created_at
FROM cart_lines
WHERE cart_id = $1
ORDER BY created_at ASC
`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		var custRaw []byte
		if err := rows.Scan(
			&line.ID,
			&line.CartID,
			&line.MenuItemID,
			&line.ItemName,
			&line.IsVeg,
			&line.Quantity,
			&line.Price,
			&custRaw,
			&line.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(custRaw) > 0 {
			if err := json.Unmarshal(custRaw, &line.Customization); err != nil {
				return nil, err
			}
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func scanCart(row pgx.Row) (*domain.Cart, error) {
	var (
		cart         domain.Cart
		restaurantID *string
		chefID       *string
	)
	if err := row.Scan(
		&cart.ID,
		&cart.UserID,
		&restaurantID,
		&chefID,
		&cart.Version,
		&cart.VendorName,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	); err != nil {
		return nil, err
	}
	vendor, err := domain.VendorRefFromNullable(restaurantID, chefID)
	if err != nil {
		return nil, err
	}
	cart.Vendor = vendor
	return &cart, nil
}
