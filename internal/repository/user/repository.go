package user

import (
	"context"

	"nanoeats/internal/domain"
)

// Repository manages users and the loyalty ledger. Point deltas go
// through atomic increments in SQL; the balance is never computed in
// application code and written back.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GrantPoints atomically credits delta points with a ledger entry
	// (admin bonus path). Delta must be positive.
	GrantPoints(ctx context.Context, userID string, delta int64, reason domain.LedgerReason) error
	LedgerByUser(ctx context.Context, userID string, limit, offset int) ([]domain.LedgerEntry, error)
}
