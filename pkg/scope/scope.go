package scope

import "strings"

// Scope is a single named permission unit granted alongside a token.
// A Scope is only ever produced by Registry.Parse or by seeding code that
// draws from the registry; handlers never build one from raw request input.
type Scope string

// String returns the scope name.
func (s Scope) String() string {
	return string(s)
}

// Scopes is a set of distinct scopes. Uniqueness is enforced when parsing;
// order carries no meaning beyond stable error reporting and response echo.
type Scopes []Scope

// Contains reports whether the set includes the given scope.
func (s Scopes) Contains(scope Scope) bool {
	for _, candidate := range s {
		if candidate == scope {
			return true
		}
	}
	return false
}

// String renders the set as the space-delimited wire form used by the
// token endpoint's scope response field.
func (s Scopes) String() string {
	names := make([]string, len(s))
	for i, scope := range s {
		names[i] = scope.String()
	}
	return strings.Join(names, " ")
}
