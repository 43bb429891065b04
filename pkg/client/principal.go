package client

import "github.com/tendant/simple-oauth2/pkg/scope"

// ClientPrincipal is the authenticated identity resolved for one request.
// It wraps a snapshot of the client's configuration taken at authentication
// time; capability checks are pure functions over that snapshot. Principals
// are created fresh per request and never persisted or shared.
type ClientPrincipal interface {
	// ClientID returns the authenticated client's identifier.
	ClientID() ClientID

	// CanPerformGrantType reports whether the client may use the grant type.
	CanPerformGrantType(grantType GrantType) bool

	// CanBeIssued reports whether the client may be issued the scope.
	CanBeIssued(s scope.Scope) bool

	// CanPerformAction reports whether the client may perform the action.
	CanPerformAction(action ClientAction) bool
}

// ConfidentialClient is the principal for a client that authenticated with
// its id and secret.
type ConfidentialClient struct {
	configuration ClientConfiguration
}

// NewConfidentialClient wraps a configuration snapshot as a confidential
// principal. Callers are expected to have verified the client's credentials
// and type first.
func NewConfidentialClient(configuration ClientConfiguration) *ConfidentialClient {
	return &ConfidentialClient{configuration: configuration}
}

func (c *ConfidentialClient) ClientID() ClientID {
	return c.configuration.ClientID
}

func (c *ConfidentialClient) CanPerformGrantType(grantType GrantType) bool {
	return c.configuration.AllowsGrantType(grantType)
}

func (c *ConfidentialClient) CanBeIssued(s scope.Scope) bool {
	return c.configuration.AllowedScopes.Contains(s)
}

func (c *ConfidentialClient) CanPerformAction(action ClientAction) bool {
	return c.configuration.AllowsAction(action)
}

// PublicClient is the principal for a client identified by client id alone.
type PublicClient struct {
	configuration ClientConfiguration
}

// NewPublicClient wraps a configuration snapshot as a public principal.
func NewPublicClient(configuration ClientConfiguration) *PublicClient {
	return &PublicClient{configuration: configuration}
}

func (c *PublicClient) ClientID() ClientID {
	return c.configuration.ClientID
}

func (c *PublicClient) CanPerformGrantType(grantType GrantType) bool {
	return c.configuration.AllowsGrantType(grantType)
}

func (c *PublicClient) CanBeIssued(s scope.Scope) bool {
	return c.configuration.AllowedScopes.Contains(s)
}

func (c *PublicClient) CanPerformAction(action ClientAction) bool {
	return c.configuration.AllowsAction(action)
}
