// Package auth — password hashing.
//
// WHY BCRYPT?
// bcrypt is deliberately slow, and the slowness is the security: brute
// forcing a dump of bcrypt hashes costs real money. It also generates and
// embeds a per-password salt, so identical passwords hash differently and
// rainbow tables are useless. Never store passwords with a fast hash
// (MD5, SHA-256) — those fall to GPU rigs in minutes.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor. Rule of thumb: pick the cost so a
// hash takes ~200-300ms on your production hardware; 12 lands there on
// current servers.
const defaultCost = 12

// PasswordService provides bcrypt hashing and verification.
// A struct (not free functions) so the cost can be lowered in tests.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest creates a PasswordService with a custom (low)
// cost. Cost 4 is the bcrypt minimum and spares tests the ~250ms-per-hash
// tax. Do NOT use in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes a plaintext password. The output embeds the salt and cost —
// store it directly, Verify knows how to decode it.
//
// Rejects plaintexts over 72 bytes: bcrypt silently truncates beyond that,
// and silent truncation of a password is worse than an error.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks a plaintext password against a stored hash. Returns nil on
// match. The comparison is constant-time inside bcrypt, so response timing
// leaks nothing about how close a guess was.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
