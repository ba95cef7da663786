package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/internship-portal/internal/model"
)

// MaxPasswordBytes is the longest password bcrypt accepts.  Longer inputs
// are rejected by request validation before they reach the hasher.
const MaxPasswordBytes = 72

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// BcryptHasher implements Hasher with bcrypt at a fixed cost.
type BcryptHasher struct {
	cost  int
	dummy []byte // compared against when the stored hash is unusable
}

// NewBcryptHasher returns a hasher using cost, falling back to
// bcrypt.DefaultCost when cost is out of range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("internship-portal/dummy"), cost)
	if err != nil {
		panic(fmt.Sprintf("bcrypt dummy hash: %v", err))
	}
	return &BcryptHasher{cost: cost, dummy: dummy}
}

// Hash returns a salted bcrypt hash of plain.  Every call uses a fresh salt.
func (h *BcryptHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrHashing, err)
	}
	return string(b), nil
}

// Verify reports whether plain matches hash.  A malformed or empty hash
// still costs one full bcrypt comparison and then reports false, so callers
// cannot tell it apart from a wrong password by timing.
func (h *BcryptHasher) Verify(plain, hash string) bool {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plain))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
