// Package pin hashes and checks the numeric PINs people log in with.
package pin

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
)

const (
	minLength = 4
	maxLength = 8
)

// Hasher defines PIN hashing contract.
type Hasher interface {
	Hash(pin string) (string, error)
	Compare(hash, pin string) error
}

// BcryptHasher implements Hasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a bcrypt-backed hasher. A zero cost means bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash validates pin and returns its bcrypt hash.
func (h *BcryptHasher) Hash(pin string) (string, error) {
	if err := Validate(pin); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), h.cost)
	if err != nil {
		return "", errs.Wrap(errs.KindUnknown, "pin.hash", err)
	}
	return string(hash), nil
}

// Compare checks if provided pin matches stored hash.
func (h *BcryptHasher) Compare(hash, pin string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)); err != nil {
		return errs.E(errs.KindInvalidCredential, "pin.compare", "incorrect mobile number or PIN")
	}
	return nil
}

// Validate checks that pin is all digits and of acceptable length.
func Validate(pin string) error {
	const op = "pin.validate"
	if len(pin) < minLength || len(pin) > maxLength {
		return errs.E(errs.KindInvalidInput, op, "PIN must be 4 to 8 digits")
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return errs.E(errs.KindInvalidInput, op, "PIN must contain digits only")
		}
	}
	return nil
}
