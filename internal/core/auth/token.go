package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chemedu/periodic-table-api/internal/core/domain"
)

// DefaultTokenTTL is how long an issued token stays valid unless the caller
// overrides it at issuance.
const DefaultTokenTTL = 30 * time.Minute

// Claims is the signed payload carried by every issued token. Role is a
// snapshot taken at issuance: role changes to the underlying account do not
// affect tokens already in flight.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies compact HS256 bearer tokens around a
// server-held secret. Rotating the secret invalidates all outstanding
// tokens; that is accepted behaviour.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the default lifetime applied by Issue.
func (c *TokenCodec) TTL() time.Duration { return c.ttl }

// Issue signs a token for subject carrying the given role. ttl <= 0 applies
// the codec default.
func (c *TokenCodec) Issue(subject string, role domain.Role, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	now := time.Now().UTC()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify decodes and validates a token, checking signature, expiry and
// structure. Every failure wraps domain.ErrInvalidToken; the specific
// reason (expired, bad signature, malformed) is for diagnostics only.
func (c *TokenCodec) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithExpirationRequired())
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, domain.ErrTokenBadSignature
	case err != nil, !parsed.Valid:
		return nil, domain.ErrTokenMalformed
	}
	if claims.Subject == "" || claims.Role == "" {
		return nil, domain.ErrTokenMalformed
	}
	return claims, nil
}
