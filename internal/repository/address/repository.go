package address

import (
	"context"

	"nanoeats/internal/domain"
)

type Repository interface {
	GetByID(ctx context.Context, userID, id string) (*domain.Address, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Address, error)
}
