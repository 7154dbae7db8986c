package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/chemedu/periodic-table-api/internal/core/auth"
	"github.com/chemedu/periodic-table-api/internal/core/domain"
)

type memCredentialRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
}

func newMemCredentialRepo() *memCredentialRepo {
	return &memCredentialRepo{accounts: make(map[string]*domain.Account)}
}

func (r *memCredentialRepo) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[username]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *account
	return &clone, nil
}

func (r *memCredentialRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.accounts[account.Username]; exists {
		return nil, domain.ErrUsernameTaken
	}
	clone := *account
	clone.ID = "acct-" + account.Username
	r.accounts[clone.Username] = &clone
	out := clone
	return &out, nil
}

func (r *memCredentialRepo) HasAdmin(_ context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Role == domain.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCredentialRepo) adminCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.accounts {
		if a.Role == domain.RoleAdmin {
			n++
		}
	}
	return n
}

func newTestAuthService(repo *memCredentialRepo) *AuthService {
	hasher := auth.NewPasswordHasher()
	codec := auth.NewTokenCodec("test-secret", time.Hour)
	return NewAuthService(repo, hasher, codec, nil, zerolog.Nop())
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	svc := newTestAuthService(newMemCredentialRepo())

	created, err := svc.Register(context.Background(), "alice", "pw123!", "student")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if created.PasswordHash == "pw123!" {
		t.Fatalf("password stored in the clear")
	}
	if created.Role != domain.RoleStudent {
		t.Fatalf("unexpected role: %s", created.Role)
	}

	token, account, err := svc.Login(context.Background(), "alice", "pw123!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" || account.Username != "alice" {
		t.Fatalf("unexpected login result: token=%q account=%+v", token, account)
	}

	resolved, err := svc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.Username != "alice" || resolved.Role != domain.RoleStudent {
		t.Fatalf("unexpected identity: %+v", resolved)
	}
}

func TestAuthService_Register_DefaultsToStudent(t *testing.T) {
	svc := newTestAuthService(newMemCredentialRepo())

	created, err := svc.Register(context.Background(), "bob", "pass123", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if created.Role != domain.RoleStudent {
		t.Fatalf("expected student role, got %s", created.Role)
	}
}

func TestAuthService_Register_InvalidInput(t *testing.T) {
	svc := newTestAuthService(newMemCredentialRepo())

	cases := []struct {
		name               string
		username, password string
		role               string
	}{
		{"blank username", "", "pass123", "student"},
		{"whitespace username", "   ", "pass123", "student"},
		{"blank password", "carl", "", "student"},
		{"whitespace password", "carl", "   \t", "student"},
		{"unknown role", "carl", "pass123", "teacher"},
	}
	for _, tc := range cases {
		if _, err := svc.Register(context.Background(), tc.username, tc.password, tc.role); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newTestAuthService(newMemCredentialRepo())

	if _, err := svc.Register(context.Background(), "dana", "pass123", "student"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "dana", "other456", "student"); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthService_Register_ConcurrentSameUsername(t *testing.T) {
	svc := newTestAuthService(newMemCredentialRepo())

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(context.Background(), "raced", "pass123", "student")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrUsernameTaken):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one concurrent registration to succeed, got %d", succeeded)
	}
}

func TestAuthService_Login_UniformFailure(t *testing.T) {
	svc := newTestAuthService(newMemCredentialRepo())

	if _, err := svc.Register(context.Background(), "erin", "goodpass", "student"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, wrongPass := svc.Login(context.Background(), "erin", "wrongpass")
	_, _, unknownUser := svc.Login(context.Background(), "nonexistent_user", "anything")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if !errors.Is(unknownUser, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", unknownUser)
	}
	if wrongPass.Error() != unknownUser.Error() {
		t.Fatalf("failure causes must be indistinguishable: %q vs %q", wrongPass, unknownUser)
	}
}

func TestAuthService_Resolve_InvalidToken(t *testing.T) {
	svc := newTestAuthService(newMemCredentialRepo())

	if _, err := svc.Resolve(context.Background(), "not-a-token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected invalid-token class, got %v", err)
	}
}

func TestAuthService_Resolve_RoleSnapshot(t *testing.T) {
	repo := newMemCredentialRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), "frank", "pass123", "admin"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	token, _, err := svc.Login(context.Background(), "frank", "pass123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Demote the stored account after issuance; the signed snapshot wins
	// until the token expires.
	repo.mu.Lock()
	repo.accounts["frank"].Role = domain.RoleStudent
	repo.mu.Unlock()

	resolved, err := svc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.Role != domain.RoleAdmin {
		t.Fatalf("expected issuance-time role admin, got %s", resolved.Role)
	}
}

func TestAuthService_EnsureAdminSeed_Idempotent(t *testing.T) {
	repo := newMemCredentialRepo()
	svc := newTestAuthService(repo)

	if err := svc.EnsureAdminSeed(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	if err := svc.EnsureAdminSeed(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	if n := repo.adminCount(); n != 1 {
		t.Fatalf("expected exactly one admin account, got %d", n)
	}

	token, account, err := svc.Login(context.Background(), "admin", "admin123")
	if err != nil {
		t.Fatalf("seeded admin login failed: %v", err)
	}
	if token == "" || account.Role != domain.RoleAdmin {
		t.Fatalf("unexpected seeded admin: %+v", account)
	}
}
