package auth

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julianrazif/kanban-mono-repo/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "myVerySecretKeyThatIsAtLeast32BytesLong"

type plainDecoder struct{}

func (plainDecoder) Decode(s string) (string, error) { return s, nil }

type failingDecoder struct{}

func (failingDecoder) Decode(string) (string, error) {
	return "", &common.CryptoError{Op: "decode"}
}

func newTestCodec(t *testing.T) *TokenCodec {
	t.Helper()
	c, err := NewTokenCodec(testSecret, plainDecoder{})
	require.NoError(t, err)
	return c
}

func TestNewTokenCodec_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		secret  string
		decoder SecretDecoder
	}{
		{"decode failure", "whatever", failingDecoder{}},
		{"short key", "too-short", plainDecoder{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenCodec(tt.secret, tt.decoder)

			var ie *common.InitializationError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, "Failed to initialize JWT key", ie.Message)
		})
	}
}

func TestIssueVerify_Valid(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t)

	tok, err := c.Issue(map[string]any{"role": "ADMIN"}, "user@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := c.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", claims["role"])

	sub, err := c.ExtractSubject(tok)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", sub)

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	require.NotNil(t, exp)
	iat, err := claims.GetIssuedAt()
	require.NoError(t, err)
	require.NotNil(t, iat)
	assert.Equal(t, time.Hour, exp.Sub(iat.Time))
}

func TestIssue_SubjectOverridesClaims(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t)

	tok, err := c.Issue(map[string]any{"sub": "mallory@example.com"}, "alice@example.com", time.Hour)
	require.NoError(t, err)

	sub, err := c.ExtractSubject(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", sub)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t)

	tok, err := c.Issue(nil, "user@example.com", -time.Second)
	require.NoError(t, err)

	_, err = c.Verify(tok)

	var ae *common.AuthenticationError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, common.ReasonInvalidToken, ae.Reason)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerify_ExpiresWithClock(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t)
	start := time.Now()
	c.now = func() time.Time { return start }

	tok, err := c.Issue(nil, "user@example.com", time.Minute)
	require.NoError(t, err)

	_, err = c.Verify(tok)
	require.NoError(t, err)

	c.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = c.Verify(tok)
	assert.Error(t, err)
}

func TestIssueNonExpiring(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t)

	tok, err := c.IssueNonExpiring(map[string]any{"id": 7}, "svc@example.com")
	require.NoError(t, err)

	c.now = func() time.Time { return time.Now().AddDate(50, 0, 0) }
	claims, err := c.Verify(tok)
	require.NoError(t, err)

	_, hasExp := claims["exp"]
	assert.False(t, hasExp)

	id, ok := UserIDClaim(claims)
	require.True(t, ok)
	assert.Equal(t, int64(7), id)
}

func TestVerify_Rejects(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t)
	other, err := NewTokenCodec(strings.Repeat("x", 40), plainDecoder{})
	require.NoError(t, err)

	foreign, err := other.Issue(nil, "user@example.com", time.Hour)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user@example.com"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"sub": "user@example.com"}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	own, err := c.Issue(nil, "user@example.com", time.Hour)
	require.NoError(t, err)
	parts := strings.Split(own, ".")
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"mallory@example.com","id":1}`))
	tampered := strings.Join(parts, ".")

	for name, tok := range map[string]string{
		"wrong key": foreign,
		"alg none":  none,
		"other alg": hs512,
		"malformed": "not.a.jwt",
		"empty":     "",
		"tampered":  tampered,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := c.Verify(tok)

			var ae *common.AuthenticationError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, "Authentication failed: Invalid JWT token", err.Error())
		})
	}
}

func TestExtractSubject_Invalid(t *testing.T) {
	t.Parallel()

	_, err := newTestCodec(t).ExtractSubject("garbage")
	var ae *common.AuthenticationError
	assert.ErrorAs(t, err, &ae)
}

func TestUserIDClaim(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   int64
		ok     bool
	}{
		{"json number", jwt.MapClaims{"id": json.Number("42")}, 42, true},
		{"float", jwt.MapClaims{"id": float64(42)}, 42, true},
		{"int", jwt.MapClaims{"id": 42}, 42, true},
		{"fraction", jwt.MapClaims{"id": 4.2}, 0, false},
		{"string", jwt.MapClaims{"id": "42"}, 0, false},
		{"nil", jwt.MapClaims{"id": nil}, 0, false},
		{"missing", jwt.MapClaims{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := UserIDClaim(tt.claims)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSecret_Redacts(t *testing.T) {
	t.Parallel()

	s := Secret(testSecret)

	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%#v", s))
	assert.Equal(t, testSecret, s.Value())

	b, err := json.Marshal(struct{ Key Secret }{s})
	require.NoError(t, err)
	assert.NotContains(t, string(b), testSecret)
}

func TestTokenCodec_DoesNotLeakKey(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t)
	for _, verb := range []string{"%v", "%+v", "%#v", "%s"} {
		out := fmt.Sprintf(verb, c)
		assert.NotContains(t, out, testSecret, verb)
		assert.Contains(t, out, secretRedacted, verb)
	}

	var buf bytes.Buffer
	slog.New(slog.NewJSONHandler(&buf, nil)).Info("codec", "tokens", c, "key", Secret(testSecret))
	assert.NotContains(t, buf.String(), testSecret)
}
