package client

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

// contextKey is a value for use with context.WithValue. It's used as
// a pointer so it fits in an interface{} without allocation.
type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "client context value " + k.name
}

var principalKey = &contextKey{"ClientPrincipal"}

// PrincipalFromContext returns the authenticated client principal stored by
// the authentication middleware, or nil if the request is unauthenticated.
func PrincipalFromContext(ctx context.Context) ClientPrincipal {
	principal, _ := ctx.Value(principalKey).(ClientPrincipal)
	return principal
}

// WithPrincipal returns a context carrying the given principal. Exposed for
// handler tests; request flows go through the middleware.
func WithPrincipal(ctx context.Context, principal ClientPrincipal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// RequireClientAuthentication authenticates the client behind a token
// request before the body is interpreted as a grant request.
//
// Exactly one credential channel must be used: HTTP Basic credentials for
// confidential clients, or a client_id form field for public clients.
// Presenting both is rejected per RFC 6749 section 2.3, as is presenting
// neither. The body is buffered and restored so that grant validation can
// re-read the same fields. Every authentication failure is a uniform 401
// raised before any grant handling; storage failures are 500.
func RequireClientAuthentication(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			basicUser, basicPassword, hasBasic := r.BasicAuth()

			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "Bad Request", http.StatusBadRequest)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			form, err := url.ParseQuery(string(body))
			if err != nil {
				http.Error(w, "Bad Request", http.StatusBadRequest)
				return
			}
			bodyClientID := form.Get("client_id")

			var principal ClientPrincipal
			switch {
			case hasBasic && bodyClientID != "":
				// Two credential channels on one request.
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return

			case !hasBasic && bodyClientID == "":
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return

			case hasBasic:
				confidential, err := authenticator.AuthenticateAsConfidentialClient(r.Context(), basicUser, []byte(basicPassword))
				if err != nil {
					slog.Error("confidential client authentication failed", "error", err)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
				if confidential != nil {
					principal = confidential
				}

			default:
				public, err := authenticator.AuthenticateAsPublicClient(r.Context(), bodyClientID)
				if err != nil {
					slog.Error("public client authentication failed", "error", err)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
				if public != nil {
					principal = public
				}
			}

			if principal == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireConfidentialClientAuthentication authenticates via HTTP Basic
// credentials only, for endpoints that never accept public clients.
func RequireConfidentialClientAuthentication(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			basicUser, basicPassword, hasBasic := r.BasicAuth()
			if !hasBasic {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			confidential, err := authenticator.AuthenticateAsConfidentialClient(r.Context(), basicUser, []byte(basicPassword))
			if err != nil {
				slog.Error("confidential client authentication failed", "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			if confidential == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := WithPrincipal(r.Context(), confidential)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAction checks that the authenticated principal is allowed the
// given client action. Returns 403 when it is not.
// Must be used after one of the authentication middlewares.
func RequireAction(action ClientAction) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !principal.CanPerformAction(action) {
				slog.Warn("client lacks required action",
					"clientId", principal.ClientID(),
					"action", action)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
