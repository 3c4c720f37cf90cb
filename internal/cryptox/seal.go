package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/dmitrijs2005/medibook/internal/common"
)

// Sealed is a passphrase-encrypted payload. Salt feeds DeriveKey, Nonce the
// AES-GCM cipher.
type Sealed struct {
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

var ErrDecrypt = errors.New("cannot decrypt: wrong passphrase or corrupted data")

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext with AES-256-GCM under a key derived from
// passphrase and a fresh random salt.
func Seal(plaintext []byte, passphrase string) (*Sealed, error) {
	salt := common.GenerateRandByteArray(saltSize)
	key := DeriveKey([]byte(passphrase), salt)
	defer common.WipeByteArray(key)

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())

	return &Sealed{
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: aesgcm.Seal(nil, nonce, plaintext, nil),
	}, nil
}

// Open reverses Seal.
func Open(s *Sealed, passphrase string) ([]byte, error) {
	key := DeriveKey([]byte(passphrase), s.Salt)
	defer common.WipeByteArray(key)

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(s.Nonce) != aesgcm.NonceSize() {
		return nil, ErrDecrypt
	}
	plaintext, err := aesgcm.Open(nil, s.Nonce, s.Ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}
