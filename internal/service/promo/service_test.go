package promo

import (
	"context"
	"testing"
	"time"

	"nanoeats/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPromoRepo struct {
	promo *domain.PromoCode
	err   error
	last  string
}

func (s *stubPromoRepo) GetByCode(_ context.Context, code string) (*domain.PromoCode, error) {
	s.last = code
	if s.err != nil {
		return nil, s.err
	}
	return s.promo, nil
}

type stubOrderCounter struct {
	count int
	err   error
}

func (s *stubOrderCounter) CountByUser(_ context.Context, _ string) (int, error) {
	return s.count, s.err
}

type stubUserRepo struct {
	user *domain.User
	err  error
}

func (s *stubUserRepo) GetByID(_ context.Context, _ string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func activePromo() *domain.PromoCode {
	return &domain.PromoCode{
		Code:          "SAVE20",
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: 20,
		MaxDiscount:   int64Ptr(100),
		MinOrderValue: 300,
		IsActive:      true,
		ValidFrom:     time.Now().Add(-time.Hour),
		ExpiryDate:    time.Now().Add(24 * time.Hour),
	}
}

func restaurantRef(t *testing.T, id string) domain.VendorRef {
	t.Helper()
	ref, err := domain.NewVendorRef(domain.VendorRestaurant, id)
	require.NoError(t, err)
	return ref
}

func TestValidateHappyPath(t *testing.T) {
	repo := &stubPromoRepo{promo: activePromo()}
	svc := New(repo, &stubOrderCounter{}, &stubUserRepo{}, 0.10)

	res, err := svc.Validate(context.Background(), "u1", restaurantRef(t, "r1"), "save20", 1000)

	require.NoError(t, err)
	assert.Equal(t, "SAVE20", repo.last, "code should be canonicalized before lookup")
	assert.Equal(t, int64(100), res.Discount, "20 percent of 1000 capped at 100")
}

func TestValidateUnknownCode(t *testing.T) {
	svc := New(&stubPromoRepo{err: domain.ErrNotFound}, &stubOrderCounter{}, &stubUserRepo{}, 0.10)

	_, err := svc.Validate(context.Background(), "u1", restaurantRef(t, "r1"), "NOPE", 1000)

	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestValidateExpired(t *testing.T) {
	p := activePromo()
	p.ExpiryDate = time.Now().Add(-time.Minute)
	svc := New(&stubPromoRepo{promo: p}, &stubOrderCounter{}, &stubUserRepo{}, 0.10)

	_, err := svc.Validate(context.Background(), "u1", restaurantRef(t, "r1"), "SAVE20", 1000)

	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestValidateInactive(t *testing.T) {
	p := activePromo()
	p.IsActive = false
	svc := New(&stubPromoRepo{promo: p}, &stubOrderCounter{}, &stubUserRepo{}, 0.10)

	_, err := svc.Validate(context.Background(), "u1", restaurantRef(t, "r1"), "SAVE20", 1000)

	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestValidateUsageLimitReached(t *testing.T) {
	p := activePromo()
	p.UsageLimit = intPtr(5)
	p.UsageCount = 5
	svc := New(&stubPromoRepo{promo: p}, &stubOrderCounter{}, &stubUserRepo{}, 0.10)

	_, err := svc.Validate(context.Background(), "u1", restaurantRef(t, "r1"), "SAVE20", 1000)

	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestValidateMinOrderValue(t *testing.T) {
	svc := New(&stubPromoRepo{promo: activePromo()}, &stubOrderCounter{}, &stubUserRepo{}, 0.10)

	_, err := svc.Validate(context.Background(), "u1", restaurantRef(t, "r1"), "SAVE20", 299)

	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Contains(t, err.Error(), "minimum order value of 300")
}

func TestValidateFirstOrderOnly(t *testing.T) {
	p := activePromo()
	p.FirstOrderOnly = true

	svc := New(&stubPromoRepo{promo: p}, &stubOrderCounter{count: 3}, &stubUserRepo{}, 0.10)
	_, err := svc.Validate(context.Background(), "u1", restaurantRef(t, "r1"), "SAVE20", 1000)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	svc = New(&stubPromoRepo{promo: p}, &stubOrderCounter{count: 0}, &stubUserRepo{}, 0.10)
	_, err = svc.Validate(context.Background(), "u1", restaurantRef(t, "r1"), "SAVE20", 1000)
	assert.NoError(t, err)
}

func TestValidateUserAllowList(t *testing.T) {
	p := activePromo()
	p.AllowedUsers = []string{"vip1", "vip2"}
	svc := New(&stubPromoRepo{promo: p}, &stubOrderCounter{}, &stubUserRepo{}, 0.10)

	_, err := svc.Validate(context.Background(), "other", restaurantRef(t, "r1"), "SAVE20", 1000)
	require.Error(t, err)

	_, err = svc.Validate(context.Background(), "vip1", restaurantRef(t, "r1"), "SAVE20", 1000)
	assert.NoError(t, err)
}

func TestValidateVendorAllowList(t *testing.T) {
	p := activePromo()
	p.AllowedVendors = []domain.VendorRef{restaurantRef(t, "r1")}
	svc := New(&stubPromoRepo{promo: p}, &stubOrderCounter{}, &stubUserRepo{}, 0.10)

	_, err := svc.Validate(context.Background(), "u1", restaurantRef(t, "r2"), "SAVE20", 1000)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = svc.Validate(context.Background(), "u1", restaurantRef(t, "r1"), "SAVE20", 1000)
	assert.NoError(t, err)
}

func TestDiscountFixedClampedToSubtotal(t *testing.T) {
	p := domain.PromoCode{DiscountType: domain.DiscountFixed, DiscountValue: 150}

	assert.Equal(t, int64(150), Discount(p, 500))
	assert.Equal(t, int64(100), Discount(p, 100))
}

func TestDiscountPercentageRounding(t *testing.T) {
	p := domain.PromoCode{DiscountType: domain.DiscountPercentage, DiscountValue: 15}

	// 15% of 333 = 49.95, rounds to 50
	assert.Equal(t, int64(50), Discount(p, 333))
}

func TestRedeemQuote(t *testing.T) {
	svc := New(&stubPromoRepo{}, &stubOrderCounter{}, &stubUserRepo{user: &domain.User{NanoPoints: 200}}, 0.10)

	got, err := svc.RedeemQuote(context.Background(), "u1", 200)
	require.NoError(t, err)
	assert.Equal(t, int64(20), got, "exact balance is redeemable")

	_, err = svc.RedeemQuote(context.Background(), "u1", 201)
	require.Error(t, err)
	assert.Equal(t, domain.KindInsufficient, domain.KindOf(err))

	_, err = svc.RedeemQuote(context.Background(), "u1", 0)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}
