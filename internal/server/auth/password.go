package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns plaintext passwords into stored credentials and checks
// candidates against them.
type Hasher interface {
	// Hash returns a self-contained credential (salt and cost embedded).
	Hash(password []byte) (string, error)
	// Verify reports whether password matches hash. A mismatch is not an
	// error; an error means the stored hash could not be used at all.
	Verify(password []byte, hash string) (bool, error)
}

// BcryptHasher implements Hasher on top of bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost. Out-of-range costs
// fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Cost returns the work factor used for new hashes.
func (h *BcryptHasher) Cost() int { return h.cost }

func (h *BcryptHasher) Hash(password []byte) (string, error) {
	// GenerateFromPassword draws a fresh 16-byte salt on every call.
	hash, err := bcrypt.GenerateFromPassword(password, h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(password []byte, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), password)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("bcrypt verify: %w", err)
	}
}
