// Package auth issues and verifies JWTs, turns request credentials into an
// authenticated Principal and keeps the per-request security state.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julianrazif/kanban-mono-repo/internal/common"
)

// MinKeyLength is the minimum HMAC key size accepted for HS256.
const MinKeyLength = 32

// ClaimUserID is the custom claim carrying the numeric user id.
const ClaimUserID = "id"

var errKeyTooShort = fmt.Errorf("signing secret must be at least %d bytes", MinKeyLength)

// SecretDecoder decrypts the configured signing secret.
type SecretDecoder interface {
	Decode(secret string) (string, error)
}

// TokenCodec signs and verifies HS256 tokens. The key is fixed at
// construction, so a TokenCodec is safe for concurrent use.
type TokenCodec struct {
	key Secret
	now func() time.Time
}

// NewTokenCodec decodes secret with d and uses the plaintext as the HMAC
// key. Any failure is an *common.InitializationError.
func NewTokenCodec(secret string, d SecretDecoder) (*TokenCodec, error) {
	plain, err := d.Decode(secret)
	if err == nil && len(plain) < MinKeyLength {
		err = errKeyTooShort
	}
	if err != nil {
		return nil, &common.InitializationError{Component: "jwt", Message: "Failed to initialize JWT key", Err: err}
	}
	return &TokenCodec{key: Secret(plain), now: time.Now}, nil
}

// Issue signs a token carrying claims, sub, iat and exp = now + ttl.
// A negative ttl yields an already expired token.
func (c *TokenCodec) Issue(claims map[string]any, subject string, ttl time.Duration) (string, error) {
	now := c.now()
	mc := c.baseClaims(claims, subject, now)
	mc["exp"] = jwt.NewNumericDate(now.Add(ttl))
	return c.sign(mc)
}

// String and GoString print the codec without its key. fmt does not call
// Secret's methods through an unexported field.
func (c *TokenCodec) String() string { return "TokenCodec{key:" + secretRedacted + "}" }

func (c *TokenCodec) GoString() string { return "&auth.TokenCodec{key:" + secretRedacted + "}" }

// LogValue redacts the codec when it is passed as a log attribute.
func (c *TokenCodec) LogValue() slog.Value {
	return slog.GroupValue(slog.String("key", secretRedacted))
}

// IssueNonExpiring signs a token without an exp claim. Such tokens stay
// valid until the signing key changes.
func (c *TokenCodec) IssueNonExpiring(claims map[string]any, subject string) (string, error) {
	return c.sign(c.baseClaims(claims, subject, c.now()))
}

// Verify checks the signature and, when present, the expiry of token.
// Every failure is reported as "Invalid JWT token".
func (c *TokenCodec) Verify(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(c.key.Value()), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithJSONNumber(),
	)
	if err != nil {
		return nil, common.NewAuthenticationError(common.ReasonInvalidToken, err)
	}
	return claims, nil
}

// ExtractSubject verifies token and returns its sub claim.
func (c *TokenCodec) ExtractSubject(token string) (string, error) {
	claims, err := c.Verify(token)
	if err != nil {
		return "", err
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return "", common.NewAuthenticationError(common.ReasonInvalidToken, err)
	}
	return sub, nil
}

func (c *TokenCodec) baseClaims(claims map[string]any, subject string, now time.Time) jwt.MapClaims {
	mc := jwt.MapClaims{}
	maps.Copy(mc, claims)
	mc["sub"] = subject
	mc["iat"] = jwt.NewNumericDate(now)
	return mc
}

func (c *TokenCodec) sign(claims jwt.MapClaims) (string, error) {
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.key.Value()))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

var errNotNumeric = errors.New("claim is not numeric")

// UserIDClaim returns the numeric id claim, if present.
func UserIDClaim(claims jwt.MapClaims) (int64, bool) {
	v, ok := claims[ClaimUserID]
	if !ok || v == nil {
		return 0, false
	}
	id, err := toInt64(v)
	if err != nil {
		return 0, false
	}
	return id, true
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		return n.Int64()
	case float64:
		if n != float64(int64(n)) {
			return 0, errNotNumeric
		}
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	}
	return 0, errNotNumeric
}
