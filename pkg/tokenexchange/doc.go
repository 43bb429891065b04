// Package tokenexchange implements the OAuth 2.0 token endpoint.
//
// # Overview
//
// The endpoint accepts form-encoded POST requests from clients that have
// already been authenticated by the client middleware, dispatches on the
// grant_type field, and answers with a single JSON Response shape for
// both successes and failures. Failures always use one of the error codes
// from RFC 6749 section 5.2 with HTTP status 400; only a storage fault
// produces a 500.
//
// # Basic Usage
//
//	registry := scope.DefaultRegistry()
//	tokens := token.NewInMemoryRepository()
//	handle := tokenexchange.NewHandle(tokens, registry)
//	tokenexchange.Routes(r, handle, authenticator)
//
// # Grant Handling
//
// Only the resource owner password credentials grant is implemented.
// Validation runs in a fixed order: grant-type authorization, username,
// password, then scopes. The first failing step decides the error code,
// so a client that is not allowed to use the grant learns nothing about
// field-level problems in its request.
package tokenexchange
