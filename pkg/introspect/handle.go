// Package introspect implements RFC 7662 token introspection for
// confidential clients granted the introspect action.
package introspect

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/simple-oauth2/pkg/client"
	"github.com/tendant/simple-oauth2/pkg/token"
)

// Introspection is the response body. Only the active flag is reported;
// issued tokens carry no further claims to reveal.
type Introspection struct {
	Active bool `json:"active"`
}

type Handle struct {
	tokens token.Repository
}

func NewHandle(tokens token.Repository) *Handle {
	return &Handle{tokens: tokens}
}

// Routes registers the introspection endpoint on r. Public clients are
// never accepted here, and confidential clients must carry the introspect
// action. The guards are attached to the POST route only, so other methods
// get chi's 405 rather than a guard response.
func Routes(r chi.Router, h *Handle, authenticator client.Authenticator) {
	r.With(
		middleware.AllowContentType("application/x-www-form-urlencoded"),
		client.RequireConfidentialClientAuthentication(authenticator),
		client.RequireAction(client.ActionIntrospect),
	).Post("/introspect", h.Introspect)
}

// Introspect reports whether the presented token is active. A token that
// does not parse as a uuid cannot have been issued here, so it is simply
// inactive rather than an error.
func (h *Handle) Introspect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if !r.PostForm.Has("token") {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	active := false
	if id, err := uuid.Parse(r.PostForm.Get("token")); err == nil {
		stored, err := h.tokens.Get(r.Context(), id)
		if err != nil {
			slog.Error("Failed looking up token for introspection", "err", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		active = stored != nil
	}

	render.JSON(w, r, Introspection{Active: active})
}
