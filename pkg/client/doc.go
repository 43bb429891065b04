// Package client provides OAuth client authentication for the token
// endpoint: client policy configuration, secret storage with rotation
// support, principal resolution, and the request-authentication middleware.
//
// # Overview
//
// The client package provides:
//   - ClientConfiguration policy records (type, grant types, scopes, actions)
//   - ClientSecret records with Argon2id hashing and rotation support
//   - AuthenticationService resolving confidential and public principals
//   - Repository pattern with in-memory and PostgreSQL backends
//   - chi middleware enforcing the credential-channel rules of RFC 6749
//
// # Basic Usage
//
//	configs := client.NewInMemoryConfigurationRepository()
//	secrets := client.NewInMemorySecretRepository()
//	authenticator := client.NewAuthenticationService(secrets, configs)
//
//	r := chi.NewRouter()
//	r.Route("/token", func(r chi.Router) {
//		r.Use(client.RequireClientAuthentication(authenticator))
//		r.Post("/", tokenHandler)
//	})
//
// # Credential Channels
//
// A token request authenticates through exactly one channel: HTTP Basic
// credentials (confidential clients) or a client_id form field (public
// clients). Requests using both or neither are rejected with 401 before any
// grant validation runs. All credential failures look identical to the
// caller; only storage failures surface differently (500).
//
// # Secret Rotation
//
// A client may hold several active secrets. Authentication verifies the
// presented secret against all of them and accepts the first match, so a
// new secret can be provisioned before the old one is removed.
package client
