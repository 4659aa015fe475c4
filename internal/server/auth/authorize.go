package auth

import "net/http"

// Route identifies a method and exact path.
type Route struct {
	Method string
	Path   string
}

// Authorize denies every request that is not Verified, except the
// permitted routes. onDenied writes the 401 response.
func Authorize(onDenied http.HandlerFunc, permit ...Route) func(http.Handler) http.Handler {
	allowed := make(map[Route]struct{}, len(permit))
	for _, rt := range permit {
		allowed[rt] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := allowed[Route{Method: r.Method, Path: r.URL.Path}]; ok {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := PrincipalFromContext(r.Context()); !ok {
				onDenied(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Security response headers.
const (
	HeaderXSSProtection   = "X-XSS-Protection"
	HeaderXContentSecPol  = "X-Content-Security-Policy"
	HeaderContentSecPol   = "Content-Security-Policy"
	xssProtectionValue    = "1; mode=block"
	xContentSecPolValue   = "default-src 'self'"
	contentSecPolicyValue = "form-action 'self'"
)

// SecurityHeaders sets the XSS and content security policy headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set(HeaderXSSProtection, xssProtectionValue)
		h.Set(HeaderXContentSecPol, xContentSecPolValue)
		h.Set(HeaderContentSecPol, contentSecPolicyValue)
		next.ServeHTTP(w, r)
	})
}
