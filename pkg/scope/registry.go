package scope

import (
	"errors"
	"strings"
)

// Parse failures. Any failure rejects the whole request; there is no
// partial acceptance of a scope list.
var (
	ErrEmptyScopes    = errors.New("defined but empty scopes")
	ErrBlankScopes    = errors.New("defined but blank scopes")
	ErrInvalidScope   = errors.New("defined but invalid scope provided")
	ErrDuplicateScope = errors.New("duplicate scope provided")
)

// Registry holds the fixed set of scope names this server knows about.
// It is constructed once at startup and shared read-only across requests.
type Registry struct {
	names map[string]struct{}
}

// NewRegistry creates a registry of valid scope names.
func NewRegistry(names ...string) *Registry {
	registry := &Registry{
		names: make(map[string]struct{}, len(names)),
	}
	for _, name := range names {
		registry.names[name] = struct{}{}
	}
	return registry
}

// DefaultRegistry returns a registry with the built-in scope names.
func DefaultRegistry() *Registry {
	return NewRegistry("basic", "read", "write")
}

// IsValid reports whether name is a known scope.
func (r *Registry) IsValid(name string) bool {
	_, ok := r.names[name]
	return ok
}

// Parse canonicalizes a raw scope request field into a set of known scopes.
//
// A nil raw value means the client requested no scopes and yields (nil, nil);
// callers treat that distinctly from an empty set. A present but empty or
// all-blank value is an error, as is any token missing from the registry.
// Repeating a valid token is rejected as a malformed request rather than
// silently collapsed, so the caller can report exactly what was sent.
func (r *Registry) Parse(raw *string) (Scopes, error) {
	if raw == nil {
		return nil, nil
	}

	if *raw == "" {
		return nil, ErrEmptyScopes
	}

	var names []string
	for _, token := range strings.Split(*raw, " ") {
		token = strings.TrimSpace(token)
		if token != "" {
			names = append(names, token)
		}
	}

	if len(names) == 0 {
		return nil, ErrBlankScopes
	}

	scopes := make(Scopes, 0, len(names))
	for _, name := range names {
		if !r.IsValid(name) {
			return nil, ErrInvalidScope
		}
		if scopes.Contains(Scope(name)) {
			return nil, ErrDuplicateScope
		}
		scopes = append(scopes, Scope(name))
	}

	return scopes, nil
}
