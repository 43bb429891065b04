// Package main runs the OAuth 2.0 authorization server without a database,
// backed entirely by in-memory repositories. This is useful for:
// - Quick development and testing
// - Demo/prototype environments
// - Learning the API without database setup
//
// Note: All issued tokens are lost when the server stops. For production,
// use cmd/oauth2 with PostgreSQL.
package main

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/simple-oauth2/pkg/client"
	"github.com/tendant/simple-oauth2/pkg/introspect"
	"github.com/tendant/simple-oauth2/pkg/scope"
	"github.com/tendant/simple-oauth2/pkg/token"
	"github.com/tendant/simple-oauth2/pkg/tokenexchange"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting in-memory OAuth 2.0 server (no database required)")

	configs := client.NewInMemoryConfigurationRepository()
	secrets := client.NewInMemorySecretRepository()
	if err := seedClients(configs, secrets); err != nil {
		slog.Error("Failed seeding demo clients", "err", err)
		os.Exit(-1)
	}

	authenticator := client.NewAuthenticationService(secrets, configs)
	tokens := token.NewInMemoryRepository()
	registry := scope.DefaultRegistry()

	server := app.DefaultApp()
	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	tokenexchange.Routes(server.R, tokenexchange.NewHandle(tokens, registry), authenticator)
	introspect.Routes(server.R, introspect.NewHandle(tokens), authenticator)

	server.Run()
}

// seedClients registers the two demo clients: a confidential client with a
// well-known secret and a public client.
func seedClients(configs *client.InMemoryConfigurationRepository, secrets *client.InMemorySecretRepository) error {
	configs.AddClient(client.ClientConfiguration{
		ClientID:          "aardvark",
		ClientType:        client.ClientTypeConfidential,
		AllowedScopes:     scope.Scopes{"basic"},
		AllowedActions:    []client.ClientAction{client.ActionIntrospect},
		AllowedGrantTypes: []client.GrantType{client.GrantTypePassword},
	})

	hasher := client.NewSecretHasher()
	hashed, err := hasher.Hash([]byte("badger"))
	if err != nil {
		return err
	}
	secrets.AddSecret(client.ClientSecret{
		ID:           uuid.New(),
		ClientID:     "aardvark",
		HashedSecret: hashed,
	})

	configs.AddClient(client.ClientConfiguration{
		ClientID:      "badger",
		ClientType:    client.ClientTypePublic,
		AllowedScopes: scope.Scopes{"basic"},
	})

	return nil
}
