package promo

import (
	"context"

	"nanoeats/internal/domain"
)

// Repository reads promo codes. The usage counter is consumed inside
// the order placement transaction, not here.
type Repository interface {
	GetByCode(ctx context.Context, code string) (*domain.PromoCode, error)
}
