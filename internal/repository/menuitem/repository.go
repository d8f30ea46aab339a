package menuitem

import (
	"context"

	"nanoeats/internal/domain"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.MenuItem, error)
	ListByVendor(ctx context.Context, vendor domain.VendorRef) ([]domain.MenuItem, error)
}
