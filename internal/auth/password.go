package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	PasswordMinLength = 7
	PasswordMaxLength = 100

	// "$2a$" + cost + "$" + 22 chars of encoded salt
	bcryptSaltLength = 29
)

// PasswordVault derives and checks salted bcrypt hashes.
//
// Passwords are pre-hashed with SHA-256 so the whole 100 character range fits
// under bcrypt's 72 byte input limit.
type PasswordVault struct {
	cost  int
	dummy []byte
}

func NewPasswordVault(cost int) (*PasswordVault, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	dummy, err := bcrypt.GenerateFromPassword(prehash("not-a-real-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	return &PasswordVault{cost: cost, dummy: dummy}, nil
}

// Hash returns a fresh salt and the bcrypt hash embedding it.
func (v *PasswordVault) Hash(plaintext string) (salt, hash string, err error) {
	h, err := bcrypt.GenerateFromPassword(prehash(plaintext), v.cost)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(h[:bcryptSaltLength]), string(h), nil
}

func (v *PasswordVault) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(plaintext)) == nil
}

// Burn spends the same work as Verify against a hash that never matches.
// Callers use it when there is no user to verify against.
func (v *PasswordVault) Burn(plaintext string) {
	_ = bcrypt.CompareHashAndPassword(v.dummy, prehash(plaintext))
}

func prehash(plaintext string) []byte {
	sum := sha256.Sum256([]byte(plaintext))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}
