package cart

import (
	"context"
	"log"
	"strings"
	"time"

	"nanoeats/internal/domain"
	"nanoeats/internal/service/catalog"
)

// Service implements the cart store: per-(user, vendor) carts with
// snapshotted, server-side pricing.
type Service struct {
	repo    cartRepo
	catalog catalogAccessor
	logger  *log.Logger
}

type cartRepo interface {
	GetByID(ctx context.Context, userID, cartID string) (*domain.Cart, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Cart, error)
	AddLine(ctx context.Context, userID string, vendor domain.VendorRef, line domain.CartLine) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, cartID, menuItemID string) (*domain.Cart, error)
	ReplaceItem(ctx context.Context, userID, cartID, menuItemID string, quantity int, line *domain.CartLine) (*domain.Cart, error)
	Delete(ctx context.Context, userID, cartID string) error
	DeleteInactiveSince(ctx context.Context, cutoff time.Time) (int64, error)
}

type catalogAccessor interface {
	ResolveVendor(ctx context.Context, ref domain.VendorRef) (*domain.Vendor, error)
	VendorItem(ctx context.Context, vendor domain.VendorRef, itemID string) (*domain.MenuItem, error)
	PriceCustomization(item *domain.MenuItem, req catalog.CustomizationRequest) (domain.Customization, int64, []string, error)
}

func New(repo cartRepo, cat catalogAccessor, logger *log.Logger) *Service {
	return &Service{repo: repo, catalog: cat, logger: logger}
}

// AddItem validates and prices the customization, then merges the line
// into the user's cart for the vendor, creating the cart lazily. Lines
// with an identical (item, customization) merge by quantity increment.
func (s *Service) AddItem(ctx context.Context, userID string, vendor domain.VendorRef, menuItemID string, quantity int, req catalog.CustomizationRequest) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, domain.Validationf("quantity must be at least 1")
	}
	if strings.TrimSpace(menuItemID) == "" {
		return nil, domain.Validationf("menu item id is required")
	}

	if _, err := s.catalog.ResolveVendor(ctx, vendor); err != nil {
		return nil, err
	}
	item, err := s.catalog.VendorItem(ctx, vendor, menuItemID)
	if err != nil {
		return nil, err
	}

	line, err := s.priceLine(item, quantity, req)
	if err != nil {
		return nil, err
	}

	return s.repo.AddLine(ctx, userID, vendor, line)
}

// RemoveItem drops every line for the menu item. When the last line
// goes, the cart goes with it and nil is returned.
func (s *Service) RemoveItem(ctx context.Context, userID, cartID, menuItemID string) (*domain.Cart, error) {
	return s.repo.RemoveItem(ctx, userID, cartID, menuItemID)
}

// UpdateItem replaces the item's quantity rather than incrementing it;
// AddItem merges, UpdateItem overwrites. A supplied customization is
// re-validated and re-priced against the catalog.
func (s *Service) UpdateItem(ctx context.Context, userID, cartID, menuItemID string, quantity int, req *catalog.CustomizationRequest) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, domain.Validationf("quantity must be at least 1")
	}

	var line *domain.CartLine
	if req != nil {
		cart, err := s.repo.GetByID(ctx, userID, cartID)
		if err != nil {
			return nil, err
		}
		item, err := s.catalog.VendorItem(ctx, cart.Vendor, menuItemID)
		if err != nil {
			return nil, err
		}
		priced, err := s.priceLine(item, quantity, *req)
		if err != nil {
			return nil, err
		}
		line = &priced
	}

	return s.repo.ReplaceItem(ctx, userID, cartID, menuItemID, quantity, line)
}

func (s *Service) Get(ctx context.Context, userID, cartID string) (*domain.Cart, error) {
	return s.repo.GetByID(ctx, userID, cartID)
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.Cart, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Clear(ctx context.Context, userID, cartID string) error {
	return s.repo.Delete(ctx, userID, cartID)
}

// ReapInactive deletes carts untouched for longer than maxAge.
func (s *Service) ReapInactive(ctx context.Context, maxAge time.Duration) (int64, error) {
	return s.repo.DeleteInactiveSince(ctx, time.Now().Add(-maxAge))
}

func (s *Service) priceLine(item *domain.MenuItem, quantity int, req catalog.CustomizationRequest) (domain.CartLine, error) {
	cust, unitPrice, dropped, err := s.catalog.PriceCustomization(item, req)
	if err != nil {
		return domain.CartLine{}, err
	}
	// Unknown add-on names are dropped, matching what clients already
	// expect; keep a trace so support can see what was requested.
	if len(dropped) > 0 && s.logger != nil {
		s.logger.Printf("dropped unknown add-ons %v for item %s", dropped, item.ID)
	}
	return domain.CartLine{
		MenuItemID:    item.ID,
		ItemName:      item.Name,
		IsVeg:         item.IsVeg,
		Quantity:      quantity,
		Price:         unitPrice,
		Customization: cust,
	}, nil
}
