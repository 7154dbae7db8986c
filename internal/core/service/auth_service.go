package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/chemedu/periodic-table-api/internal/core/auth"
	"github.com/chemedu/periodic-table-api/internal/core/domain"
	"github.com/chemedu/periodic-table-api/internal/core/ports"
)

// AuthService implements registration, login and token resolution on top of
// the credential repository, the password hasher and the token codec.
type AuthService struct {
	repo   ports.CredentialRepository
	hasher *auth.PasswordHasher
	codec  *auth.TokenCodec
	audit  ports.AuditRecorder
	logger zerolog.Logger

	// dummyHash is compared against when a login targets an unknown
	// username, so that both failure paths cost one bcrypt verification.
	dummyHash string
}

func NewAuthService(repo ports.CredentialRepository, hasher *auth.PasswordHasher, codec *auth.TokenCodec, audit ports.AuditRecorder, logger zerolog.Logger) *AuthService {
	dummy, err := hasher.Hash("unused-timing-equalizer")
	if err != nil {
		// bcrypt only fails on absurd cost parameters; treat as fatal.
		panic(fmt.Sprintf("auth service: hashing self-test failed: %v", err))
	}
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		codec:     codec,
		audit:     audit,
		logger:    logger,
		dummyHash: dummy,
	}
}

func (s *AuthService) Register(ctx context.Context, username, password, role string) (*domain.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("%w: username and password must not be blank", domain.ErrInvalidInput)
	}

	r, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.Account{
		Username:     username,
		PasswordHash: hash,
		Role:         r,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.record(domain.AuditEvent{Actor: created.Username, Action: domain.AuditRegister, Subject: string(created.Role)})
	s.logger.Info().Str("username", created.Username).Str("role", string(created.Role)).Msg("account registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Account, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			// Burn a comparison so unknown-user and wrong-password paths
			// are indistinguishable by error and by latency.
			s.hasher.Verify(password, s.dummyHash)
			s.record(domain.AuditEvent{Actor: username, Action: domain.AuditLoginFailed})
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		s.record(domain.AuditEvent{Actor: username, Action: domain.AuditLoginFailed})
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(account.Username, account.Role, 0)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	s.record(domain.AuditEvent{Actor: account.Username, Action: domain.AuditLogin})
	s.logger.Debug().Str("username", account.Username).Msg("login succeeded")
	return token, account, nil
}

// Resolve trusts the signed role snapshot; the credential store is not
// re-queried per request.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.Account, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return nil, err
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, domain.ErrTokenMalformed
	}

	return &domain.Account{Username: claims.Subject, Role: role}, nil
}

func (s *AuthService) EnsureAdminSeed(ctx context.Context, username, password string) error {
	exists, err := s.repo.HasAdmin(ctx)
	if err != nil {
		return fmt.Errorf("admin seed: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("admin seed: %w", err)
	}

	_, err = s.repo.Create(ctx, &domain.Account{
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	})
	if errors.Is(err, domain.ErrUsernameTaken) {
		// Lost the race to another instance; an admin exists now.
		return nil
	}
	if err != nil {
		return fmt.Errorf("admin seed: %w", err)
	}

	s.logger.Warn().Str("username", username).Msg("seeded default admin account; rotate its password before any non-development deployment")
	return nil
}

func (s *AuthService) record(event domain.AuditEvent) {
	if s.audit != nil {
		s.audit.Record(event)
	}
}
