package tokenexchange

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/tendant/simple-oauth2/pkg/client"
	"github.com/tendant/simple-oauth2/pkg/scope"
	"github.com/tendant/simple-oauth2/pkg/token"
)

const defaultAccessTokenLifetime = 7200

// Handle serves the token endpoint.
type Handle struct {
	tokens              token.Repository
	registry            *scope.Registry
	accessTokenLifetime int64
}

type HandleOption func(*Handle)

// WithAccessTokenLifetime overrides the expires_in value, in seconds,
// reported for issued access tokens.
func WithAccessTokenLifetime(seconds int64) HandleOption {
	return func(h *Handle) {
		h.accessTokenLifetime = seconds
	}
}

func NewHandle(tokens token.Repository, registry *scope.Registry, opts ...HandleOption) *Handle {
	h := &Handle{
		tokens:              tokens,
		registry:            registry,
		accessTokenLifetime: defaultAccessTokenLifetime,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes registers the token endpoint on r. Requests must be form-encoded
// and carry client credentials on exactly one channel; both guards run
// before the handler sees the request. The guards are attached to the POST
// route only, so a request with any other method gets chi's 405 rather
// than a guard response.
func Routes(r chi.Router, h *Handle, authenticator client.Authenticator) {
	r.With(
		middleware.AllowContentType("application/x-www-form-urlencoded"),
		client.RequireClientAuthentication(authenticator),
	).Post("/token", h.TokenExchange)
}

// TokenExchange dispatches a token request to its grant handler based on
// the grant_type form field.
func (h *Handle) TokenExchange(w http.ResponseWriter, r *http.Request) {
	principal := client.PrincipalFromContext(r.Context())
	if principal == nil {
		// Authentication middleware was not mounted. Fail closed.
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.respond(w, r, Failure(ErrorInvalidRequest, "malformed form body"))
		return
	}

	if !r.PostForm.Has("grant_type") || strings.TrimSpace(r.PostForm.Get("grant_type")) == "" {
		h.respond(w, r, Failure(ErrorInvalidRequest, "missing parameter: grant_type"))
		return
	}
	grantType, err := client.ParseGrantType(r.PostForm.Get("grant_type"))
	if err != nil {
		h.respond(w, r, Failure(ErrorUnsupportedGrantType, err.Error()))
		return
	}

	var response Response
	switch grantType {
	case client.GrantTypePassword:
		response, err = h.handlePasswordGrant(r.Context(), principal, r.PostForm)
	}
	if err != nil {
		slog.Error("Failed executing token grant", "grant_type", grantType, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.respond(w, r, response)
}

func (h *Handle) respond(w http.ResponseWriter, r *http.Request, response Response) {
	status := http.StatusOK
	if response.IsFailure() {
		status = http.StatusBadRequest
	}
	render.Status(r, status)
	render.JSON(w, r, response)
}
