// Package cryptox implements the symmetric primitives used to protect
// configuration secrets: PBKDF2 key derivation, AES-CBC encryption and a
// legacy password-based codec for "MASK-" prefixed values.
//
// Salt and IV are fixed zero-filled buffers, so equal plaintexts produce
// equal ciphertexts and one password always derives the same key. Stored
// secrets depend on this; changing it requires re-encrypting them.
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/julianrazif/kanban-mono-repo/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// Iterations is the PBKDF2 and legacy codec iteration count.
	Iterations = 10000
	// KeySize is the derived AES key length in bytes (AES-256).
	KeySize = 32
	// SaltLength is the length of the salt and IV buffers.
	SaltLength = 16
)

var (
	errInvalidPadding = errors.New("invalid padding")
	errBlockSize      = errors.New("input is not a multiple of the block size")
)

// GenerateSalt returns the zero-filled salt buffer.
func GenerateSalt() []byte {
	return make([]byte, SaltLength)
}

// GenerateIV returns the zero-filled initialization vector.
func GenerateIV() []byte {
	return make([]byte, SaltLength)
}

// DeriveKey derives an AES-256 key from password with PBKDF2-HMAC-SHA256.
func DeriveKey(password string) []byte {
	return pbkdf2.Key([]byte(password), GenerateSalt(), Iterations, KeySize, sha256.New)
}

// Encrypt encrypts data with AES-CBC and PKCS#5 padding.
func Encrypt(data, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, &common.CryptoError{Op: "encrypt", Err: err}
	}

	padded := pkcs5Pad(data, block.BlockSize())
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, GenerateIV()).CryptBlocks(out, padded)

	return out, nil
}

// Decrypt reverses Encrypt. A wrong key or corrupted input is reported as
// a *common.CryptoError.
func Decrypt(ciphertext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, &common.CryptoError{Op: "decrypt", Err: err}
	}

	if len(ciphertext) == 0 || len(ciphertext)%block.BlockSize() != 0 {
		return nil, &common.CryptoError{Op: "decrypt", Err: errBlockSize}
	}

	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, GenerateIV()).CryptBlocks(out, ciphertext)

	plain, err := pkcs5Unpad(out, block.BlockSize())
	if err != nil {
		return nil, &common.CryptoError{Op: "decrypt", Err: err}
	}
	return plain, nil
}

// EncodeToString encrypts data and returns the ciphertext base64 encoded.
func EncodeToString(data, key []byte) (string, error) {
	ct, err := Encrypt(data, key)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ct), nil
}

// DecodeToString base64-decodes secret and decrypts it.
func DecodeToString(secret string, key []byte) (string, error) {
	ct, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return "", &common.CryptoError{Op: "decode", Err: fmt.Errorf("malformed base64: %w", err)}
	}

	plain, err := Decrypt(ct, key)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// BytesToHex returns the lowercase hex encoding of b, or nil when b is nil.
func BytesToHex(b []byte) *string {
	if b == nil {
		return nil
	}
	s := hex.EncodeToString(b)
	return &s
}

func pkcs5Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(bytes.Clone(data), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs5Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, errInvalidPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, errInvalidPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errInvalidPadding
		}
	}
	return data[:len(data)-n], nil
}
