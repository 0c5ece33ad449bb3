package auth

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/contactshare/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt work factor used for new password hashes.
var HashCost = bcrypt.DefaultCost

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned for passwords bcrypt cannot hash.
var ErrPasswordTooLong = fmt.Errorf("%w: password must be at most %d bytes", common.ErrInvalidInput, MaxPasswordBytes)

func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches hash. A malformed hash
// simply does not match.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// RejectPassword spends the same bcrypt work as VerifyPassword and always
// fails. Login uses it for unknown accounts so response time does not reveal
// which emails are registered.
func RejectPassword(password string) bool {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("contactshare-unknown-account"), HashCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
	return false
}
