package promo

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"nanoeats/internal/domain"
)

// Service evaluates promo codes against an order context and quotes
// loyalty point redemptions. It never mutates state: the usage counter
// and the point debit are consumed atomically inside the order
// placement transaction.
type Service struct {
	promos     promoRepo
	orders     orderCounter
	users      userRepo
	pointValue float64
}

type promoRepo interface {
	GetByCode(ctx context.Context, code string) (*domain.PromoCode, error)
}

type orderCounter interface {
	CountByUser(ctx context.Context, userID string) (int, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

func New(promos promoRepo, orders orderCounter, users userRepo, pointValue float64) *Service {
	return &Service{promos: promos, orders: orders, users: users, pointValue: pointValue}
}

// Result is a successful promo evaluation.
type Result struct {
	Code          string              `json:"code"`
	Description   string              `json:"description"`
	DiscountType  domain.DiscountType `json:"discountType"`
	DiscountValue int64               `json:"discountValue"`
	Discount      int64               `json:"discount"`
	MinOrderValue int64               `json:"minOrderValue"`
}

// Validate runs the eligibility checks in order, each short-circuiting,
// then computes the discount for the given subtotal.
func (s *Service) Validate(ctx context.Context, userID string, vendor domain.VendorRef, code string, subtotal int64) (*Result, error) {
	canonical := strings.ToUpper(strings.TrimSpace(code))
	if canonical == "" {
		return nil, domain.Validationf("promo code is required")
	}

	p, err := s.promos.GetByCode(ctx, canonical)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFoundf("invalid or expired promo code")
		}
		return nil, err
	}

	now := time.Now()
	if !p.IsActive || now.Before(p.ValidFrom) || !now.Before(p.ExpiryDate) {
		return nil, domain.Validationf("promo code expired or inactive")
	}
	if p.UsageLimit != nil && p.UsageCount >= *p.UsageLimit {
		return nil, domain.Conflictf("promo code usage limit reached")
	}
	if subtotal < p.MinOrderValue {
		return nil, domain.Validationf("minimum order value of %d required", p.MinOrderValue)
	}
	if p.FirstOrderOnly {
		count, err := s.orders.CountByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, domain.Validationf("promo valid for first order only")
		}
	}
	if !p.AllowsUser(userID) {
		return nil, domain.Validationf("promo not applicable for this user")
	}
	if !p.AllowsVendor(vendor) {
		return nil, domain.Validationf("promo not applicable for this %s", vendor.Kind)
	}

	return &Result{
		Code:          p.Code,
		Description:   p.Description,
		DiscountType:  p.DiscountType,
		DiscountValue: p.DiscountValue,
		Discount:      Discount(*p, subtotal),
		MinOrderValue: p.MinOrderValue,
	}, nil
}

// Discount computes the discount amount for a promo at a subtotal.
// Percentage discounts are capped at maxDiscount when set; fixed
// discounts are clamped to the subtotal so they can never push the
// bill negative on their own.
func Discount(p domain.PromoCode, subtotal int64) int64 {
	switch p.DiscountType {
	case domain.DiscountPercentage:
		d := int64(math.Round(float64(subtotal) * float64(p.DiscountValue) / 100))
		if p.MaxDiscount != nil && d > *p.MaxDiscount {
			d = *p.MaxDiscount
		}
		return d
	case domain.DiscountFixed:
		if p.DiscountValue > subtotal {
			return subtotal
		}
		return p.DiscountValue
	default:
		return 0
	}
}

// RedeemQuote verifies the user holds enough points and returns the
// redemption discount. The balance itself is debited atomically with
// order creation, never here: a failed placement must not leave the
// user under-credited.
func (s *Service) RedeemQuote(ctx context.Context, userID string, points int64) (int64, error) {
	if points <= 0 {
		return 0, domain.Validationf("points to redeem must be positive")
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.NotFoundf("user not found")
		}
		return 0, err
	}
	if points > u.NanoPoints {
		return 0, domain.Insufficientf("insufficient nano points: have %d, want %d", u.NanoPoints, points)
	}
	return int64(math.Round(float64(points) * s.pointValue)), nil
}
