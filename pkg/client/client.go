package client

import (
	"fmt"

	"github.com/tendant/simple-oauth2/pkg/scope"
)

// ClientID is the opaque identifier an OAuth client presents when
// authenticating. It is never decoded from untrusted input directly;
// handlers pass the raw string through the authentication service, which
// resolves it against the configuration store.
type ClientID string

// String returns the underlying identifier.
func (id ClientID) String() string {
	return string(id)
}

// ClientType distinguishes clients that can hold a secret from those
// that cannot.
type ClientType string

const (
	// ClientTypeConfidential marks clients capable of keeping a secret,
	// such as backend services. They authenticate with id plus secret.
	ClientTypeConfidential ClientType = "confidential"
	// ClientTypePublic marks clients unable to keep a secret, such as
	// browser apps. They are identified by client id alone.
	ClientTypePublic ClientType = "public"
)

// ClientAction is a privileged server operation a client may be allowed
// to perform beyond token exchange.
type ClientAction string

const (
	// ActionIntrospect allows calling the token introspection endpoint.
	ActionIntrospect ClientAction = "introspect"
)

// GrantType is the OAuth mechanism by which a client requests a token.
type GrantType string

const (
	GrantTypePassword GrantType = "password"
)

// ParseGrantType converts the grant_type request field into a known grant
// type. The error text is surfaced verbatim as the error_description of an
// unsupported_grant_type failure.
func ParseGrantType(value string) (GrantType, error) {
	switch value {
	case "password":
		return GrantTypePassword, nil
	default:
		return "", fmt.Errorf("unsupported: %s", value)
	}
}

// ClientConfiguration is the per-client policy record: what kind of client
// it is and which grant types, scopes, and actions it is allowed. It is
// authoritative on every request; authorization decisions are never cached
// across requests.
type ClientConfiguration struct {
	ClientID          ClientID
	ClientType        ClientType
	RedirectURIs      []string
	AllowedScopes     scope.Scopes
	AllowedActions    []ClientAction
	AllowedGrantTypes []GrantType
}

// AllowsGrantType reports whether the configuration permits the grant type.
func (c ClientConfiguration) AllowsGrantType(grantType GrantType) bool {
	for _, allowed := range c.AllowedGrantTypes {
		if allowed == grantType {
			return true
		}
	}
	return false
}

// AllowsAction reports whether the configuration permits the action.
func (c ClientConfiguration) AllowsAction(action ClientAction) bool {
	for _, allowed := range c.AllowedActions {
		if allowed == action {
			return true
		}
	}
	return false
}
