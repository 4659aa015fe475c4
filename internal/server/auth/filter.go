package auth

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/julianrazif/kanban-mono-repo/internal/common"
	"github.com/julianrazif/kanban-mono-repo/internal/logging"
)

// Paths that never carry credentials.
const (
	RegisterPath = "/register"
	LoginPath    = "/login"
)

// TokenVerifier verifies a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (jwt.MapClaims, error)
}

// ErrorHandler writes the response for a failed authentication.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Filter authenticates each request from its Authorization and Username
// headers and installs the result in the request's SecurityContext.
type Filter struct {
	tokens  TokenVerifier
	logger  logging.Logger
	onError ErrorHandler
	bypass  map[string]struct{}
}

// NewFilter creates a Filter bypassing RegisterPath and LoginPath.
// onError may be nil, in which case a plain 401 is written.
func NewFilter(tokens TokenVerifier, logger logging.Logger, onError ErrorHandler) *Filter {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		}
	}
	return &Filter{
		tokens:  tokens,
		logger:  logger.With("module", "auth_filter"),
		onError: onError,
		bypass:  map[string]struct{}{RegisterPath: {}, LoginPath: {}},
	}
}

// Middleware runs the filter once per request.
func (f *Filter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := f.bypass[r.URL.Path]; ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx, sc := WithSecurityContext(r.Context())
		r = r.WithContext(ctx)

		if err := f.authenticate(r, sc); err != nil {
			sc.Clear()
			f.logger.Warn(ctx, "authentication rejected", "path", r.URL.Path, "error", err)
			f.onError(w, r, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (f *Filter) authenticate(r *http.Request, sc *SecurityContext) error {
	if err := f.extract(r, sc); err != nil {
		return err
	}
	return f.verify(r, sc)
}

// extract installs Provisional credentials when the Authorization header
// is a bearer token. Any other scheme installs nothing.
func (f *Filter) extract(r *http.Request, sc *SecurityContext) error {
	header := r.Header.Get(common.AuthorizationHeaderName)
	if strings.TrimSpace(header) == "" {
		return common.NewAuthenticationError(common.ReasonNoToken, nil)
	}
	username := r.Header.Get(common.UsernameHeaderName)
	if strings.TrimSpace(username) == "" {
		return common.NewAuthenticationError(common.ReasonNoUsername, nil)
	}

	if strings.HasPrefix(header, common.BearerPrefix) {
		sc.SetAuthentication(Provisional{
			Username: strings.TrimSpace(username),
			Token:    strings.TrimSpace(header[len(common.BearerPrefix):]),
		})
	}
	return nil
}

func (f *Filter) verify(r *http.Request, sc *SecurityContext) error {
	creds, ok := sc.Authentication().(Provisional)
	if !ok {
		// not a bearer request; authorization decides what happens next
		sc.Clear()
		return nil
	}
	if creds.Token == "" {
		return common.NewAuthenticationError(common.ReasonInvalidToken, nil)
	}
	if creds.Username == "" {
		return common.NewAuthenticationError(common.ReasonInvalidUsername, nil)
	}

	claims, err := f.tokens.Verify(creds.Token)
	if err != nil {
		return err
	}

	email, _ := claims.GetSubject()
	id, hasID := UserIDClaim(claims)
	if email == "" || !hasID {
		sc.Clear()
		return nil
	}

	principal, err := NewPrincipal(id, email)
	if err != nil {
		return common.NewAuthenticationError(common.ReasonInvalidToken, err)
	}
	if principal.Name() != creds.Username {
		return common.NewAuthenticationError(common.ReasonInvalidUsername, nil)
	}

	verified := NewVerified(principal, nil, Details{
		RemoteAddress: r.RemoteAddr,
		RequestID:     middleware.GetReqID(r.Context()),
	}, &creds)
	verified.EraseCredentials()
	sc.SetAuthentication(verified)

	return nil
}
