// Package password wraps bcrypt hashing and verification of user passwords.
// bcrypt embeds a fresh random salt in every hash, so two hashes of the same
// plaintext differ while both still verify.
package password

import "golang.org/x/crypto/bcrypt"

// Hasher hashes and verifies plaintext passwords. Safe for concurrent use.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the given bcrypt cost.
// A cost outside bcrypt's valid range falls back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash derives a salted hash of plaintext. Failures are internal errors
// (bad cost, plaintext over bcrypt's length limit), never user-facing.
func (h *Hasher) Hash(plaintext string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	return string(bytes), err
}

// Verify reports whether plaintext matches hash. It never returns an error:
// a malformed hash simply fails verification.
func (h *Hasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
