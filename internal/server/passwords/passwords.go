// Package passwords hashes and verifies account passwords with bcrypt and
// enforces the registration strength rules.
package passwords

import (
	"strings"
	"unicode"

	"github.com/dmitrijs2005/safevault/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// MinLength is the shortest password accepted at registration.
const MinLength = 8

// MaxBytes is bcrypt's input limit; longer passwords cannot be hashed.
const MaxBytes = 72

// Symbols is the fixed punctuation set a strong password must draw from.
const Symbols = "!@#$%^&*()-_=+[]{}|;:'\",.<>?/`~"

// Hasher hashes and verifies passwords. The bcrypt output embeds its own
// salt and cost, so verification works for hashes made at any cost.
type Hasher struct {
	Cost int
	// dummy is compared against when there is no stored hash, so an
	// unknown username costs as much as a wrong password.
	dummy []byte
}

// NewHasher returns a Hasher for cost, clamped to bcrypt's valid range.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("safevault-timing-equaliser"), cost)
	if err != nil {
		return nil, err
	}
	return &Hasher{Cost: cost, dummy: dummy}, nil
}

// Hash returns the bcrypt hash of plain.
func (h *Hasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plain matches storedHash. Malformed hashes never
// match.
func (h *Hasher) Verify(plain, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plain)) == nil
}

// Burn spends one verification worth of time and always fails.
func (h *Hasher) Burn(plain string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plain))
}

// CheckStrength returns common.ErrorWeakPassword unless pw has at least
// MinLength characters with an upper-case letter, a lower-case letter, a
// digit and one of Symbols. Passwords over MaxBytes yield
// common.ErrorPasswordTooLong.
func CheckStrength(pw string) error {
	if len(pw) > MaxBytes {
		return common.ErrorPasswordTooLong
	}
	var upper, lower, digit, symbol bool
	n := 0
	for _, r := range pw {
		n++
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(Symbols, r):
			symbol = true
		}
	}
	if n < MinLength || !upper || !lower || !digit || !symbol {
		return common.ErrorWeakPassword
	}
	return nil
}
