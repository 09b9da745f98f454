package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when no user matched so that unknown
// emails take as long as wrong passwords.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOa5bCH6j0RJ8PjDSDY2y0NbX0xW4eU3a"

type BcryptPasswordHasher struct {
	cost int
}

func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to generate password hash: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptPasswordHasher) Verify(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		// one message for mismatch and malformed hash alike
		return fmt.Errorf("password verification failed")
	}
	return nil
}

// VerifyDummy burns one comparison and always fails.
func (h *BcryptPasswordHasher) VerifyDummy(password string) error {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
	return fmt.Errorf("password verification failed")
}
