// Package auth holds the two stateless leaves of the authentication core:
// the password hasher and the token codec.
package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher produces and verifies salted one-way password digests.
// bcrypt embeds a fresh random salt on every call, so hashing the same
// password twice yields different digests that both verify.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: bcrypt.DefaultCost}
}

// Hash returns the bcrypt digest of plaintext.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext reproduces digest. A malformed digest
// verifies false rather than surfacing an error. The underlying comparison
// is constant-time.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
