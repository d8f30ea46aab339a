package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"nanoeats/internal/domain"
	"nanoeats/internal/service/catalog"
)

type stubRepo struct {
	cart            *domain.Cart
	carts           []domain.Cart
	err             error
	lastAddUser     string
	lastAddVendor   domain.VendorRef
	lastAddLine     domain.CartLine
	lastReplaceQty  int
	lastReplaceLine *domain.CartLine
	lastDeleteCart  string
	reaped          int64
	lastCutoff      time.Time
}

func (s *stubRepo) GetByID(_ context.Context, _, _ string) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubRepo) ListByUser(_ context.Context, _ string) ([]domain.Cart, error) {
	return s.carts, s.err
}

func (s *stubRepo) AddLine(_ context.Context, userID string, vendor domain.VendorRef, line domain.CartLine) (*domain.Cart, error) {
	s.lastAddUser = userID
	s.lastAddVendor = vendor
	s.lastAddLine = line
	return s.cart, s.err
}

func (s *stubRepo) RemoveItem(_ context.Context, _, _, _ string) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubRepo) ReplaceItem(_ context.Context, _, _, _ string, quantity int, line *domain.CartLine) (*domain.Cart, error) {
	s.lastReplaceQty = quantity
	s.lastReplaceLine = line
	return s.cart, s.err
}

func (s *stubRepo) Delete(_ context.Context, _, cartID string) error {
	s.lastDeleteCart = cartID
	return s.err
}

func (s *stubRepo) DeleteInactiveSince(_ context.Context, cutoff time.Time) (int64, error) {
	s.lastCutoff = cutoff
	return s.reaped, s.err
}

type stubCatalog struct {
	vendor     *domain.Vendor
	vendorErr  error
	item       *domain.MenuItem
	itemErr    error
	cust       domain.Customization
	unitPrice  int64
	dropped    []string
	priceErr   error
	lastPriced *domain.MenuItem
}

func (s *stubCatalog) ResolveVendor(_ context.Context, _ domain.VendorRef) (*domain.Vendor, error) {
	return s.vendor, s.vendorErr
}

func (s *stubCatalog) VendorItem(_ context.Context, _ domain.VendorRef, _ string) (*domain.MenuItem, error) {
	return s.item, s.itemErr
}

func (s *stubCatalog) PriceCustomization(item *domain.MenuItem, _ catalog.CustomizationRequest) (domain.Customization, int64, []string, error) {
	s.lastPriced = item
	return s.cust, s.unitPrice, s.dropped, s.priceErr
}

func restaurantRef(t *testing.T) domain.VendorRef {
	t.Helper()
	ref, err := domain.NewVendorRef(domain.VendorRestaurant, "r1")
	if err != nil {
		t.Fatalf("vendor ref: %v", err)
	}
	return ref
}

func TestAddItemQuantityValidation(t *testing.T) {
	svc := New(&stubRepo{}, &stubCatalog{}, nil)

	_, err := svc.AddItem(context.Background(), "u1", restaurantRef(t), "m1", 0, catalog.CustomizationRequest{})
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddItemMissingItemID(t *testing.T) {
	svc := New(&stubRepo{}, &stubCatalog{}, nil)

	_, err := svc.AddItem(context.Background(), "u1", restaurantRef(t), "  ", 1, catalog.CustomizationRequest{})
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddItemSnapshotsServerPrice(t *testing.T) {
	repo := &stubRepo{cart: &domain.Cart{ID: "c1"}}
	cat := &stubCatalog{
		vendor:    &domain.Vendor{Name: "Test Kitchen"},
		item:      &domain.MenuItem{ID: "m1", Name: "Burger", IsVeg: false, Price: 150},
		cust:      domain.Customization{SpiceLevel: "hot"},
		unitPrice: 180,
	}
	svc := New(repo, cat, nil)

	got, err := svc.AddItem(context.Background(), "u1", restaurantRef(t), "m1", 2, catalog.CustomizationRequest{SpiceLevel: "hot"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ID != "c1" {
		t.Fatalf("unexpected cart: %+v", got)
	}
	if repo.lastAddLine.Price != 180 {
		t.Fatalf("expected snapshotted price 180, got %d", repo.lastAddLine.Price)
	}
	if repo.lastAddLine.Quantity != 2 || repo.lastAddLine.MenuItemID != "m1" {
		t.Fatalf("unexpected line: %+v", repo.lastAddLine)
	}
	if repo.lastAddLine.Customization.SpiceLevel != "hot" {
		t.Fatalf("expected customization carried through, got %+v", repo.lastAddLine.Customization)
	}
}

func TestAddItemVendorLookupError(t *testing.T) {
	cat := &stubCatalog{vendorErr: domain.NotFoundf("restaurant not found")}
	svc := New(&stubRepo{}, cat, nil)

	_, err := svc.AddItem(context.Background(), "u1", restaurantRef(t), "m1", 1, catalog.CustomizationRequest{})
	if domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddItemPricingError(t *testing.T) {
	cat := &stubCatalog{
		vendor:   &domain.Vendor{},
		item:     &domain.MenuItem{ID: "m1"},
		priceErr: domain.Validationf("spice level not offered"),
	}
	svc := New(&stubRepo{}, cat, nil)

	_, err := svc.AddItem(context.Background(), "u1", restaurantRef(t), "m1", 1, catalog.CustomizationRequest{SpiceLevel: "nuclear"})
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateItemQuantityOnly(t *testing.T) {
	repo := &stubRepo{cart: &domain.Cart{ID: "c1"}}
	svc := New(repo, &stubCatalog{}, nil)

	_, err := svc.UpdateItem(context.Background(), "u1", "c1", "m1", 3, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastReplaceQty != 3 {
		t.Fatalf("expected quantity 3, got %d", repo.lastReplaceQty)
	}
	if repo.lastReplaceLine != nil {
		t.Fatalf("expected no reprice without customization, got %+v", repo.lastReplaceLine)
	}
}

func TestUpdateItemWithCustomizationReprices(t *testing.T) {
	repo := &stubRepo{cart: &domain.Cart{ID: "c1", Vendor: restaurantRef(t)}}
	cat := &stubCatalog{
		item:      &domain.MenuItem{ID: "m1", Name: "Burger", Price: 150},
		cust:      domain.Customization{AddOns: []domain.AddOn{{Name: "cheese", Price: 30}}},
		unitPrice: 180,
	}
	svc := New(repo, cat, nil)

	req := &catalog.CustomizationRequest{AddOns: []string{"cheese"}}
	_, err := svc.UpdateItem(context.Background(), "u1", "c1", "m1", 2, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastReplaceLine == nil {
		t.Fatal("expected a repriced line")
	}
	if repo.lastReplaceLine.Price != 180 {
		t.Fatalf("expected repriced line at 180, got %d", repo.lastReplaceLine.Price)
	}
}

func TestUpdateItemQuantityValidation(t *testing.T) {
	svc := New(&stubRepo{}, &stubCatalog{}, nil)

	_, err := svc.UpdateItem(context.Background(), "u1", "c1", "m1", 0, nil)
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRemoveItemPassesThrough(t *testing.T) {
	svc := New(&stubRepo{cart: nil}, &stubCatalog{}, nil)

	got, err := svc.RemoveItem(context.Background(), "u1", "c1", "m1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil cart after last item removed, got %+v", got)
	}
}

func TestClearRepoError(t *testing.T) {
	svc := New(&stubRepo{err: errors.New("boom")}, &stubCatalog{}, nil)

	if err := svc.Clear(context.Background(), "u1", "c1"); err == nil {
		t.Fatal("expected repo error")
	}
}

func TestReapInactiveCutoff(t *testing.T) {
	repo := &stubRepo{reaped: 4}
	svc := New(repo, &stubCatalog{}, nil)

	n, err := svc.ReapInactive(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 reaped, got %d", n)
	}
	if time.Since(repo.lastCutoff) < 23*time.Hour {
		t.Fatalf("cutoff not pushed back far enough: %v", repo.lastCutoff)
	}
}
