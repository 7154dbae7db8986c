package ports

import (
	"context"

	"github.com/chemedu/periodic-table-api/internal/core/domain"
)

// CredentialRepository is the persistence contract for accounts.
//
// Create must be atomic with respect to concurrent registrations of the
// same username: when two calls race, at most one succeeds and the other
// fails with domain.ErrUsernameTaken. Username matching is case-sensitive
// and exact.
type CredentialRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	HasAdmin(ctx context.Context) (bool, error)
}
