package httpserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nanoeats/internal/domain"
	cartsvc "nanoeats/internal/service/cart"
	"nanoeats/internal/service/catalog"

	"github.com/gin-gonic/gin"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubCartRepo struct {
	cart *domain.Cart
	err  error
}

func (s *stubCartRepo) GetByID(_ context.Context, _, _ string) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartRepo) ListByUser(_ context.Context, _ string) ([]domain.Cart, error) {
	if s.cart == nil {
		return nil, s.err
	}
	return []domain.Cart{*s.cart}, s.err
}

func (s *stubCartRepo) AddLine(_ context.Context, _ string, _ domain.VendorRef, _ domain.CartLine) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartRepo) RemoveItem(_ context.Context, _, _, _ string) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartRepo) ReplaceItem(_ context.Context, _, _, _ string, _ int, _ *domain.CartLine) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartRepo) Delete(_ context.Context, _, _ string) error {
	return s.err
}

func (s *stubCartRepo) DeleteInactiveSince(_ context.Context, _ time.Time) (int64, error) {
	return 0, s.err
}

type stubCatalogAccessor struct {
	item *domain.MenuItem
}

func (s *stubCatalogAccessor) ResolveVendor(_ context.Context, ref domain.VendorRef) (*domain.Vendor, error) {
	return &domain.Vendor{Ref: ref, Name: "Test Kitchen"}, nil
}

func (s *stubCatalogAccessor) VendorItem(_ context.Context, _ domain.VendorRef, _ string) (*domain.MenuItem, error) {
	if s.item == nil {
		return nil, domain.NotFoundf("menu item not found")
	}
	return s.item, nil
}

func (s *stubCatalogAccessor) PriceCustomization(item *domain.MenuItem, req catalog.CustomizationRequest) (domain.Customization, int64, []string, error) {
	return domain.Customization{SpiceLevel: req.SpiceLevel}, item.Price, nil, nil
}

func cartRouter(t *testing.T, repo *stubCartRepo, cat *stubCatalogAccessor) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return buildRouter(logDiscard(), nil, Deps{
		CartSvc: cartsvc.New(repo, cat, logDiscard()),
	})
}

func TestAddToCartHandler(t *testing.T) {
	repo := &stubCartRepo{cart: &domain.Cart{ID: "c1", Vendor: domain.VendorRef{Kind: domain.VendorRestaurant, ID: "r1"}}}
	cat := &stubCatalogAccessor{item: &domain.MenuItem{ID: "m1", Name: "Burger", Price: 150}}
	router := cartRouter(t, repo, cat)

	body := `{"restaurantId":"r1","menuItemId":"m1","quantity":2}`
	req := httptest.NewRequest(http.MethodPost, "/cart/add", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(userIDHeader, "u1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"restaurantId":"r1"`) {
		t.Fatalf("expected vendor in response, got %s", rec.Body.String())
	}
}

func TestAddToCartHandlerRejectsBothVendors(t *testing.T) {
	router := cartRouter(t, &stubCartRepo{}, &stubCatalogAccessor{})

	body := `{"restaurantId":"r1","chefId":"c1","menuItemId":"m1","quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/cart/add", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(userIDHeader, "u1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAddToCartHandlerRequiresUser(t *testing.T) {
	router := cartRouter(t, &stubCartRepo{}, &stubCatalogAccessor{})

	req := httptest.NewRequest(http.MethodPost, "/cart/add", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRemoveFromCartHandlerDeletedCart(t *testing.T) {
	// repo returns nil cart: removing the last item deletes the cart
	router := cartRouter(t, &stubCartRepo{cart: nil}, &stubCatalogAccessor{})

	body := `{"cartId":"c1","menuItemId":"m1"}`
	req := httptest.NewRequest(http.MethodDelete, "/cart/remove", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(userIDHeader, "u1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "cart deleted") {
		t.Fatalf("expected deletion message, got %s", rec.Body.String())
	}
}

func TestGetCartHandlerNotFound(t *testing.T) {
	router := cartRouter(t, &stubCartRepo{err: domain.NotFoundf("cart not found")}, &stubCatalogAccessor{})

	req := httptest.NewRequest(http.MethodGet, "/cart/c-missing", nil)
	req.Header.Set(userIDHeader, "u1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
