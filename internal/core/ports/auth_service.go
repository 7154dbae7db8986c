package ports

import (
	"context"

	"github.com/chemedu/periodic-table-api/internal/core/domain"
)

// AuthService orchestrates registration, login and token-to-identity
// resolution.
type AuthService interface {
	// Register creates an account. Blank username/password or a role
	// outside the enumeration fail with domain.ErrInvalidInput; a duplicate
	// username fails with domain.ErrUsernameTaken.
	Register(ctx context.Context, username, password, role string) (*domain.Account, error)

	// Login authenticates and returns a signed bearer token plus the
	// account. Unknown user and wrong password both fail with
	// domain.ErrInvalidCredentials and comparable latency.
	Login(ctx context.Context, username, password string) (string, *domain.Account, error)

	// Resolve verifies a token and rebuilds the caller identity from the
	// signed claims without re-querying the credential store.
	Resolve(ctx context.Context, token string) (*domain.Account, error)

	// EnsureAdminSeed creates the given admin account once, if and only if
	// no admin exists yet. Idempotent; safe to call at every startup.
	EnsureAdminSeed(ctx context.Context, username, password string) error
}
