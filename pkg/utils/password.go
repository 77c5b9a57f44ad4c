package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost is used when no valid cost is configured.
const DefaultPasswordCost = 10

// PasswordHasher hashes and compares passwords with bcrypt at a fixed cost.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultPasswordCost
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	return string(bytes), err
}

func (h *PasswordHasher) Compare(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

func HashPassword(password string) (string, error) {
	return NewPasswordHasher(DefaultPasswordCost).Hash(password)
}

func CheckPassword(hashedPassword, password string) bool {
	return NewPasswordHasher(DefaultPasswordCost).Compare(hashedPassword, password)
}
