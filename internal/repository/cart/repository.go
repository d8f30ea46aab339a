package cart

import (
	"context"
	"time"

	"nanoeats/internal/domain"
)

// Repository persists carts. Every mutation runs in a transaction that
// locks the cart row, so at most one mutation per cart is in flight.
type Repository interface {
	GetByID(ctx context.Context, userID, cartID string) (*domain.Cart, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Cart, error)
	// AddLine creates the (user, vendor) cart when absent and merges
	// the line into any existing line with the same merge identity.
	AddLine(ctx context.Context, userID string, vendor domain.VendorRef, line domain.CartLine) (*domain.Cart, error)
	// RemoveItem drops every line for the menu item; an emptied cart
	// is deleted and nil is returned.
	RemoveItem(ctx context.Context, userID, cartID, menuItemID string) (*domain.Cart, error)
	// ReplaceItem sets the quantity on the item's lines; when line is
	// non-nil the item's lines collapse into that single re-priced line.
	ReplaceItem(ctx context.Context, userID, cartID, menuItemID string, quantity int, line *domain.CartLine) (*domain.Cart, error)
	Delete(ctx context.Context, userID, cartID string) error
	// DeleteInactiveSince reaps carts untouched since cutoff and
	// returns how many were removed.
	DeleteInactiveSince(ctx context.Context, cutoff time.Time) (int64, error)
}
