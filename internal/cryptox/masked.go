package cryptox

import (
	"crypto/cipher"
	"crypto/des"
	"crypto/md5"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/julianrazif/kanban-mono-repo/internal/common"
)

// MaskPrefix marks a configuration value as masked.
const MaskPrefix = "MASK-"

// DefaultMaskPassword is the password historically used to mask
// configuration values. It is not a secret.
const DefaultMaskPassword = "somearbitrarycrazystringthatdoesnotmatter"

const pbeSaltLength = 8

var errSaltLength = errors.New("salt must be 8 bytes")

// MaskedCodec encodes and decodes masked secrets with PBEWithMD5AndDES
// (PKCS#5 v1.5 PBKDF1 over MD5, DES-CBC).
type MaskedCodec struct {
	password []byte
}

// NewMaskedCodec returns a codec keyed by password, falling back to
// DefaultMaskPassword when password is empty.
func NewMaskedCodec(password string) *MaskedCodec {
	if password == "" {
		password = DefaultMaskPassword
	}
	return &MaskedCodec{password: []byte(password)}
}

// IsMasked reports whether s carries the mask prefix.
func IsMasked(s string) bool {
	return strings.HasPrefix(s, MaskPrefix)
}

// Encode masks secret and returns MaskPrefix followed by base64 ciphertext.
func (c *MaskedCodec) Encode(secret, salt string, iterations int) (string, error) {
	block, iv, err := c.blockAndIV(salt, iterations)
	if err != nil {
		return "", &common.CryptoError{Op: "mask", Err: err}
	}

	padded := pkcs5Pad([]byte(secret), block.BlockSize())
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	return MaskPrefix + base64.StdEncoding.EncodeToString(out), nil
}

// Decode unmasks secret. Values without MaskPrefix are returned unchanged.
func (c *MaskedCodec) Decode(secret, salt string, iterations int) (string, error) {
	if !IsMasked(secret) {
		return secret, nil
	}

	ct, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, MaskPrefix))
	if err != nil {
		return "", &common.CryptoError{Op: "unmask", Err: fmt.Errorf("malformed base64: %w", err)}
	}

	block, iv, err := c.blockAndIV(salt, iterations)
	if err != nil {
		return "", &common.CryptoError{Op: "unmask", Err: err}
	}
	if len(ct) == 0 || len(ct)%block.BlockSize() != 0 {
		return "", &common.CryptoError{Op: "unmask", Err: errBlockSize}
	}

	out := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ct)

	plain, err := pkcs5Unpad(out, block.BlockSize())
	if err != nil {
		return "", &common.CryptoError{Op: "unmask", Err: err}
	}
	return string(plain), nil
}

// DecodeOptional is Decode for values that may be absent: nil in, nil out.
func (c *MaskedCodec) DecodeOptional(secret *string, salt string, iterations int) (*string, error) {
	if secret == nil {
		return nil, nil
	}
	s, err := c.Decode(*secret, salt, iterations)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *MaskedCodec) blockAndIV(salt string, iterations int) (cipher.Block, []byte, error) {
	if len(salt) != pbeSaltLength {
		return nil, nil, errSaltLength
	}
	if iterations < 1 {
		return nil, nil, fmt.Errorf("invalid iteration count %d", iterations)
	}

	dk := pbkdf1MD5(c.password, []byte(salt), iterations)
	defer common.WipeByteArray(dk)

	block, err := des.NewCipher(dk[:8])
	if err != nil {
		return nil, nil, err
	}
	iv := make([]byte, des.BlockSize)
	copy(iv, dk[8:16])

	return block, iv, nil
}

// pbkdf1MD5 hashes password||salt and then rehashes the digest until
// iterations rounds are done.
func pbkdf1MD5(password, salt []byte, iterations int) []byte {
	h := md5.New()
	h.Write(password)
	h.Write(salt)
	dk := h.Sum(nil)

	for i := 1; i < iterations; i++ {
		sum := md5.Sum(dk)
		dk = sum[:]
	}
	return dk
}
