// Package cryptox hashes account passwords and seals snapshot exports.
//
// Passwords are stored as self-describing strings: argon2id hashes as
// "argon2id$<salt hex>$<key hex>", bcrypt hashes in their standard "$2..."
// form. VerifyPassword dispatches on the prefix, so both schemes can coexist
// in one store.
package cryptox

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/medibook/internal/common"
)

const (
	SchemeArgon2id = "argon2id"
	SchemeBcrypt   = "bcrypt"
)

const (
	saltSize = 16
	keySize  = 32
)

var ErrUnknownHash = errors.New("unknown password hash format")

var bcryptCost = bcrypt.DefaultCost

// DeriveKey stretches password with salt using argon2id.
func DeriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, keySize)
}

// HashPassword hashes password with the named scheme. An empty scheme
// selects argon2id.
func HashPassword(scheme, password string) (string, error) {
	switch scheme {
	case "", SchemeArgon2id:
		salt := common.GenerateRandByteArray(saltSize)
		key := DeriveKey([]byte(password), salt)
		return SchemeArgon2id + "$" + hex.EncodeToString(salt) + "$" + hex.EncodeToString(key), nil
	case SchemeBcrypt:
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
		if err != nil {
			return "", fmt.Errorf("bcrypt: %w", err)
		}
		return string(h), nil
	}
	return "", fmt.Errorf("unsupported password scheme %q", scheme)
}

// VerifyPassword reports whether password matches encoded. Comparison runs in
// constant time.
func VerifyPassword(encoded, password string) (bool, error) {
	switch {
	case strings.HasPrefix(encoded, SchemeArgon2id+"$"):
		parts := strings.Split(encoded, "$")
		if len(parts) != 3 {
			return false, ErrUnknownHash
		}
		salt, err := hex.DecodeString(parts[1])
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrUnknownHash, err)
		}
		want, err := hex.DecodeString(parts[2])
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrUnknownHash, err)
		}
		got := DeriveKey([]byte(password), salt)
		defer common.WipeByteArray(got)
		return subtle.ConstantTimeCompare(got, want) == 1, nil

	case strings.HasPrefix(encoded, "$2"):
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("bcrypt: %w", err)
		}
		return true, nil
	}
	return false, ErrUnknownHash
}
