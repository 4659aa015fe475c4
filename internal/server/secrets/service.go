// Package secrets unmasks the configured master password and uses the key
// derived from it to encrypt and decrypt other configuration secrets such
// as datasource credentials and the JWT signing secret.
package secrets

import (
	"errors"

	"github.com/julianrazif/kanban-mono-repo/internal/common"
	"github.com/julianrazif/kanban-mono-repo/internal/cryptox"
)

var errNoMasterPassword = errors.New("encryption password is not configured")

// Service resolves the master key and decodes secrets with it.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	codec              *cryptox.MaskedCodec
	encryptionPassword string
	iterations         int
}

// NewService creates a Service. encryptionPassword is normally a MASK-
// value; maskPassword keys the legacy codec (empty selects the default).
func NewService(encryptionPassword, maskPassword string, iterations int) *Service {
	if iterations <= 0 {
		iterations = cryptox.Iterations
	}
	return &Service{
		codec:              cryptox.NewMaskedCodec(maskPassword),
		encryptionPassword: encryptionPassword,
		iterations:         iterations,
	}
}

// Salt returns the legacy codec salt: the first 8 hex characters of the
// zero salt buffer.
func Salt() string {
	return (*cryptox.BytesToHex(cryptox.GenerateSalt()))[:8]
}

// ResolveMasterPassword unmasks the configured encryption password.
func (s *Service) ResolveMasterPassword() (string, error) {
	if s.encryptionPassword == "" {
		return "", &common.CryptoError{Op: "resolve master password", Err: errNoMasterPassword}
	}
	return s.codec.Decode(s.encryptionPassword, Salt(), s.iterations)
}

// DeriveMasterKey derives the AES key from the resolved master password.
// Callers should wipe the returned slice once done with it.
func (s *Service) DeriveMasterKey() ([]byte, error) {
	password, err := s.ResolveMasterPassword()
	if err != nil {
		return nil, err
	}
	return cryptox.DeriveKey(password), nil
}

// Decode decrypts a base64 ciphertext produced by Encode.
func (s *Service) Decode(secret string) (string, error) {
	key, err := s.DeriveMasterKey()
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(key)

	return cryptox.DecodeToString(secret, key)
}

// Encode encrypts plain with the master key and returns base64 ciphertext.
func (s *Service) Encode(plain string) (string, error) {
	key, err := s.DeriveMasterKey()
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(key)

	return cryptox.EncodeToString([]byte(plain), key)
}

// Mask produces a MASK- value for secret with the service's codec
// parameters. It is the inverse of the unmasking done for the master
// password.
func (s *Service) Mask(secret string) (string, error) {
	return s.codec.Encode(secret, Salt(), s.iterations)
}
