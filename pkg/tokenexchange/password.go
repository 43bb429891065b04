package tokenexchange

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/tendant/simple-oauth2/pkg/client"
	"github.com/tendant/simple-oauth2/pkg/scope"
	"github.com/tendant/simple-oauth2/pkg/token"
)

// PasswordGrant is a fully validated resource owner password credentials
// request. Building one requires surviving every validation step, so a
// value of this type is always safe to execute.
type PasswordGrant struct {
	Client   client.ClientPrincipal
	Username string
	Password string
	Scopes   scope.Scopes
}

// validatePasswordGrant checks the authenticated client and form fields in
// a fixed order: grant-type authorization first, then username, password,
// and finally the requested scopes. A non-nil failure response means the
// request must be rejected without executing the grant.
//
// Only confidential clients may use this grant. A public client is refused
// here even when its configuration lists the password grant.
func (h *Handle) validatePasswordGrant(principal client.ClientPrincipal, form url.Values) (*PasswordGrant, *Response) {
	confidential, ok := principal.(*client.ConfidentialClient)
	if !ok || !confidential.CanPerformGrantType(client.GrantTypePassword) {
		failure := Failure(ErrorUnauthorizedClient, "client is not authorized for grant type: password")
		return nil, &failure
	}

	if !form.Has("username") {
		failure := Failure(ErrorInvalidRequest, "missing parameter: username")
		return nil, &failure
	}
	username := form.Get("username")
	if strings.TrimSpace(username) == "" {
		failure := Failure(ErrorInvalidRequest, "invalid parameter: username")
		return nil, &failure
	}

	// Presence only. Whether the password itself is acceptable is a
	// credential question, not a request-shape one.
	if !form.Has("password") {
		failure := Failure(ErrorInvalidRequest, "missing parameter: password")
		return nil, &failure
	}
	password := form.Get("password")

	var raw *string
	if form.Has("scope") {
		value := form.Get("scope")
		raw = &value
	}
	scopes, err := h.registry.Parse(raw)
	if err != nil {
		failure := Failure(ErrorInvalidScope, err.Error())
		return nil, &failure
	}
	for _, s := range scopes {
		if !principal.CanBeIssued(s) {
			failure := Failure(ErrorInvalidScope, "client is not authorized for the requested scopes")
			return nil, &failure
		}
	}

	return &PasswordGrant{
		Client:   principal,
		Username: username,
		Password: password,
		Scopes:   scopes,
	}, nil
}

// handlePasswordGrant validates and executes a password grant, minting a
// fresh access token and persisting it. An error return means token
// storage failed; validation failures come back as a failure Response.
func (h *Handle) handlePasswordGrant(ctx context.Context, principal client.ClientPrincipal, form url.Values) (Response, error) {
	grant, failure := h.validatePasswordGrant(principal, form)
	if failure != nil {
		return *failure, nil
	}

	accessToken := token.AccessToken{ID: uuid.New()}
	if err := h.tokens.Save(ctx, accessToken); err != nil {
		return Response{}, err
	}

	response := Response{
		AccessToken:  accessToken.ID.String(),
		TokenType:    token.TokenTypeBearer,
		ExpiresIn:    h.accessTokenLifetime,
		RefreshToken: uuid.New().String(),
	}
	if grant.Scopes != nil {
		response.Scope = grant.Scopes.String()
	}
	return response, nil
}
