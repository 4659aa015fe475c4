package auth

import "context"

type contextKey int

const securityContextKey contextKey = iota

// SecurityContext is the mutable, request-scoped holder of the current
// Authentication. It belongs to a single request and is not shared.
type SecurityContext struct {
	auth Authentication
}

func (sc *SecurityContext) Authentication() Authentication { return sc.auth }

func (sc *SecurityContext) SetAuthentication(a Authentication) { sc.auth = a }

// Clear removes any authentication, provisional or verified.
func (sc *SecurityContext) Clear() { sc.auth = nil }

// WithSecurityContext returns ctx carrying a SecurityContext. An existing
// one is reused so nested middleware share the same holder.
func WithSecurityContext(ctx context.Context) (context.Context, *SecurityContext) {
	if sc, ok := SecurityContextFromContext(ctx); ok {
		return ctx, sc
	}
	sc := &SecurityContext{}
	return context.WithValue(ctx, securityContextKey, sc), sc
}

func SecurityContextFromContext(ctx context.Context) (*SecurityContext, bool) {
	sc, ok := ctx.Value(securityContextKey).(*SecurityContext)
	return sc, ok
}

// PrincipalFromContext returns the verified principal of the request.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	sc, ok := SecurityContextFromContext(ctx)
	if !ok {
		return Principal{}, false
	}
	v, ok := sc.Authentication().(*Verified)
	if !ok {
		return Principal{}, false
	}
	return v.Principal(), true
}
