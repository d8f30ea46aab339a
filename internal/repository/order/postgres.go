package order

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

const orderColumns = `
id::text, order_number, user_id::text, restaurant_id::text, chef_id::text,
items, billing, status, payment_status, delivery_address, promo_code,
nano_points_earned, created_at, updated_at
`

func (r *postgresRepo) Place(ctx context.Context, in PlaceInput) (*domain.Order, *domain.Payment, error) {
	itemsJSON, err := json.Marshal(in.Lines)
	if err != nil {
		return nil, nil, err
	}
	billingJSON, err := json.Marshal(in.Billing)
	if err != nil {
		return nil, nil, err
	}
	addressJSON, err := json.Marshal(in.Address)
	if err != nil {
		return nil, nil, err
	}

	paymentStatus := domain.PaymentStatusPending
	orderPayState := domain.PaymentPending
	if in.PaidImmediately {
		paymentStatus = domain.PaymentStatusSuccess
		orderPayState = domain.PaymentPaid
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	var orderID string
	if err := tx.QueryRow(ctx, `
INSERT INTO orders (order_number, user_id, restaurant_id, chef_id, items, billing,
                    total_amount, status, payment_status, delivery_address, promo_code,
                    nano_points_earned)
VALUES ($1, $2, $3, $4, $5, $6, $7, 'placed', $8, $9, $10, $11)
RETURNING id::text
`,
		in.OrderNumber,
		in.UserID,
		nullable(in.Vendor.RestaurantID()),
		nullable(in.Vendor.ChefID()),
		itemsJSON,
		billingJSON,
		in.Billing.TotalAmount,
		orderPayState,
		addressJSON,
		in.PromoCode,
		in.Billing.NanoPointsEarned,
	).Scan(&orderID); err != nil {
		return nil, nil, err
	}

	var gatewayJSON []byte
	if in.GatewayResponse != nil {
		if gatewayJSON, err = json.Marshal(in.GatewayResponse); err != nil {
			return nil, nil, err
		}
	}
	var paymentID string
	if err := tx.QueryRow(ctx, `
INSERT INTO payments (order_id, method, status, amount, coupon_used, gateway_response)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text
`, orderID, in.Method, paymentStatus, in.Billing.TotalAmount, in.PromoCode, gatewayJSON).Scan(&paymentID); err != nil {
		return nil, nil, err
	}

	if in.PromoCode != "" {
		cmd, err := tx.Exec(ctx, `
UPDATE promo_codes
SET usage_count = usage_count + 1
WHERE code = $1 AND (usage_limit IS NULL OR usage_count < usage_limit)
`, in.PromoCode)
		if err != nil {
			return nil, nil, err
		}
		if cmd.RowsAffected() == 0 {
			return nil, nil, domain.Conflictf("promo code usage limit reached")
		}
	}

	if in.RedeemPoints > 0 {
		cmd, err := tx.Exec(ctx, `
UPDATE users
SET nano_points = nano_points - $1
WHERE id = $2 AND nano_points >= $1
`, in.RedeemPoints, in.UserID)
		if err != nil {
			return nil, nil, err
		}
		if cmd.RowsAffected() == 0 {
			return nil, nil, domain.Insufficientf("insufficient nano points")
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO loyalty_ledger (user_id, delta, reason, order_id)
VALUES ($1, $2, 'redeemed', $3)
`, in.UserID, -in.RedeemPoints, orderID); err != nil {
			return nil, nil, err
		}
	}

	if in.PaidImmediately && in.Billing.NanoPointsEarned > 0 {
		if err := creditEarned(ctx, tx, in.UserID, orderID, in.Billing.NanoPointsEarned); err != nil {
			return nil, nil, err
		}
	}

	// Compare-and-swap cart delete: a cart mutated since billing was
	// computed aborts the whole placement instead of shipping a stale
	// snapshot.
	cmd, err := tx.Exec(ctx, `
DELETE FROM carts
WHERE id = $1 AND user_id = $2 AND version = $3
`, in.CartID, in.UserID, in.CartVersion)
	if err != nil {
		return nil, nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, nil, domain.Conflictf("cart changed while placing the order, retry")
	}

	ord, err := r.fetchOrder(ctx, tx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return nil, nil, err
	}
	pay, err := r.fetchPayment(ctx, tx, orderID)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return ord, pay, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	return r.fetchOrder(ctx, r.pool, `
SELECT `+orderColumns+`
FROM orders
WHERE id = $1 AND user_id = $2
`, orderID, userID)
}

func (r *postgresRepo) GetAnyByID(ctx context.Context, orderID string) (*domain.Order, error) {
	return r.fetchOrder(ctx, r.pool, `
SELECT `+orderColumns+`
FROM orders
WHERE id = $1
`, orderID)
}

func (r *postgresRepo) GetPayment(ctx context.Context, orderID string) (*domain.Payment, error) {
	return r.fetchPayment(ctx, r.pool, orderID)
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string, f ListFilter) ([]domain.Order, int, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}

	where := `WHERE user_id = $1`
	args := []any{userID}
	if f.Status != "" {
		where += ` AND status = $2`
		args = append(args, f.Status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders ` + where + ` ORDER BY created_at DESC`
	args = append(args, limit, f.Offset)
	if f.Status != "" {
		query += ` LIMIT $3 OFFSET $4`
	} else {
		query += ` LIMIT $2 OFFSET $3`
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *ord)
	}
	return orders, total, rows.Err()
}

func (r *postgresRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *postgresRepo) ApplyStatus(ctx context.Context, orderID string, upd StatusUpdate) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var userID string
	var earned int64
	err = tx.QueryRow(ctx, `
UPDATE orders
SET status = $1, updated_at = now()
WHERE id = $2
RETURNING user_id::text, nano_points_earned
`, upd.Status, orderID).Scan(&userID, &earned)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	if upd.SettlePayment {
		if _, err := tx.Exec(ctx, `
UPDATE payments
SET status = 'success', updated_at = now()
WHERE order_id = $1
`, orderID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
UPDATE orders
SET payment_status = 'paid', updated_at = now()
WHERE id = $1
`, orderID); err != nil {
			return err
		}
		if earned > 0 {
			if err := creditEarnedOnce(ctx, tx, userID, orderID, earned); err != nil {
				return err
			}
		}
	}

	if upd.ResetPayment {
		if _, err := tx.Exec(ctx, `
UPDATE payments
SET status = 'pending', updated_at = now()
WHERE order_id = $1 AND status <> 'failed'
`, orderID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
UPDATE orders
SET payment_status = 'pending', updated_at = now()
WHERE id = $1
`, orderID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) ApplyPaymentResult(ctx context.Context, orderID string, status domain.PaymentStatus, response map[string]interface{}) error {
	var responseJSON []byte
	if response != nil {
		var err error
		if responseJSON, err = json.Marshal(response); err != nil {
			return err
		}
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
UPDATE payments
SET status = $1,
    gateway_response = COALESCE($2, gateway_response),
    updated_at = now()
WHERE order_id = $3
`, status, responseJSON, orderID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFoundf("payment record not found")
	}

	var orderPayState domain.PaymentState
	switch status {
	case domain.PaymentStatusSuccess:
		orderPayState = domain.PaymentPaid
	case domain.PaymentStatusFailed:
		orderPayState = domain.PaymentFailed
	default:
		orderPayState = domain.PaymentPending
	}

	var userID string
	var earned int64
	if err := tx.QueryRow(ctx, `
UPDATE orders
SET payment_status = $1, updated_at = now()
WHERE id = $2
RETURNING user_id::text, nano_points_earned
`, orderPayState, orderID).Scan(&userID, &earned); err != nil {
		return err
	}

	if status == domain.PaymentStatusSuccess && earned > 0 {
		if err := creditEarnedOnce(ctx, tx, userID, orderID, earned); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// creditEarnedOnce credits the order's earned points unless a matching
// ledger entry already exists, keeping webhook retries idempotent.
func creditEarnedOnce(ctx context.Context, tx pgx.Tx, userID, orderID string, points int64) error {
	var exists bool
	if err := tx.QueryRow(ctx, `
SELECT EXISTS (
	SELECT 1 FROM loyalty_ledger WHERE order_id = $1 AND reason = 'earned'
)
`, orderID).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}
	return creditEarned(ctx, tx, userID, orderID, points)
}

func creditEarned(ctx context.Context, tx pgx.Tx, userID, orderID string, points int64) error {
	if _, err := tx.Exec(ctx, `
UPDATE users
SET nano_points = nano_points + $1
WHERE id = $2
`, points, userID); err != nil {
		return err
	}
	_, err := tx.Exec(ctx, `
INSERT INTO loyalty_ledger (user_id, delta, reason, order_id)
VALUES ($1, $2, 'earned', $3)
`, userID, points, orderID)
	return err
}

type queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *postgresRepo) fetchOrder(ctx context.Context, q queryer, query string, args ...any) (*domain.Order, error) {
	ord, err := scanOrder(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return ord, nil
}

func (r *postgresRepo) fetchPayment(ctx context.Context, q queryer, orderID string) (*domain.Payment, error) {
	var p domain.Payment
	var gatewayRaw []byte
	err := q.QueryRow(ctx, `
SELECT id::text, order_id::text, method, status, amount, coupon_used, gateway_response, created_at
FROM payments
WHERE order_id = $1
`, orderID).Scan(&p.ID, &p.OrderID, &p.Method, &p.Status, &p.Amount, &p.CouponUsed, &gatewayRaw, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(gatewayRaw) > 0 {
		if err := json.Unmarshal(gatewayRaw, &p.GatewayResponse); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		ord          domain.Order
		restaurantID *string
		chefID       *string
		itemsRaw     []byte
		billingRaw   []byte
		addressRaw   []byte
		earned       int64
	)
	if err := row.Scan(
		&ord.ID,
		&ord.OrderNumber,
		&ord.UserID,
		&restaurantID,
		&chefID,
		&itemsRaw,
		&billingRaw,
		&ord.Status,
		&ord.PaymentStatus,
		&addressRaw,
		&ord.PromoCode,
		&earned,
		&ord.CreatedAt,
		&ord.UpdatedAt,
	); err != nil {
		return nil, err
	}

	vendor, err := domain.VendorRefFromNullable(restaurantID, chefID)
	if err != nil {
		return nil, err
	}
	ord.Vendor = vendor

	if err := json.Unmarshal(itemsRaw, &ord.Lines); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(billingRaw, &ord.Billing); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(addressRaw, &ord.DeliveryAddress); err != nil {
		return nil, err
	}
	ord.Billing.NanoPointsEarned = earned
	return &ord, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
