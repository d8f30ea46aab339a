package order

import (
	"context"

	"nanoeats/internal/domain"
)

// PlaceInput carries everything the placement transaction commits in
// one shot: order + payment insert, promo usage, loyalty debit and
// earn, and the cart delete.
type PlaceInput struct {
	OrderNumber     string
	UserID          string
	Vendor          domain.VendorRef
	CartID          string
	CartVersion     int
	Lines           []domain.OrderLine
	Billing         domain.Billing
	Address         domain.Address
	Method          domain.PaymentMethod
	GatewayResponse map[string]interface{}
	// PaidImmediately settles the payment inside the transaction
	// (prepaid method with a successful gateway response).
	PaidImmediately bool
	PromoCode       string
	RedeemPoints    int64
}

// StatusUpdate is applied atomically with an order status change.
type StatusUpdate struct {
	Status domain.OrderStatus
	// SettlePayment flips the payment to success and the order to
	// paid in the same transaction (COD delivery).
	SettlePayment bool
	// ResetPayment returns a non-failed payment to pending (refund
	// signal on cancellation).
	ResetPayment bool
}

// ListFilter narrows and pages GetUserOrders.
type ListFilter struct {
	Status domain.OrderStatus
	Limit  int
	Offset int
}

type Repository interface {
	// Place commits the cart-to-order transition in a single
	// transaction. The cart delete is a compare-and-swap on the cart
	// version; a concurrent cart mutation aborts the whole placement.
	Place(ctx context.Context, in PlaceInput) (*domain.Order, *domain.Payment, error)
	GetByID(ctx context.Context, userID, orderID string) (*domain.Order, error)
	// GetAnyByID skips user scoping (vendor/admin status updates,
	// payment webhooks).
	GetAnyByID(ctx context.Context, orderID string) (*domain.Order, error)
	GetPayment(ctx context.Context, orderID string) (*domain.Payment, error)
	ListByUser(ctx context.Context, userID string, f ListFilter) ([]domain.Order, int, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	ApplyStatus(ctx context.Context, orderID string, upd StatusUpdate) error
	// ApplyPaymentResult records a gateway outcome, mirrors it onto
	// the order, and credits earned loyalty points exactly once on
	// success.
	ApplyPaymentResult(ctx context.Context, orderID string, status domain.PaymentStatus, response map[string]interface{}) error
}
