package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-oauth2/pkg/scope"
)

// PostgresConfigurationRepository implements ConfigurationRepository using
// PostgreSQL.
type PostgresConfigurationRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresConfigurationRepository creates a new PostgreSQL client
// configuration repository.
func NewPostgresConfigurationRepository(pool *pgxpool.Pool) *PostgresConfigurationRepository {
	return &PostgresConfigurationRepository{
		pool: pool,
	}
}

// FindByID retrieves a client configuration by client id.
func (r *PostgresConfigurationRepository) FindByID(ctx context.Context, clientID ClientID) (*ClientConfiguration, error) {
	query := `
		SELECT client_id, client_type, redirect_uris,
			allowed_scopes, allowed_actions, allowed_grant_types
		FROM client_configurations
		WHERE client_id = $1
	`

	var (
		id           string
		clientType   string
		redirectURIs []string
		scopes       []string
		actions      []string
		grantTypes   []string
	)

	err := r.pool.QueryRow(ctx, query, clientID.String()).Scan(
		&id,
		&clientType,
		&redirectURIs,
		&scopes,
		&actions,
		&grantTypes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get client configuration: %w", err)
	}

	configuration := &ClientConfiguration{
		ClientID:     ClientID(id),
		ClientType:   ClientType(clientType),
		RedirectURIs: redirectURIs,
	}
	for _, name := range scopes {
		configuration.AllowedScopes = append(configuration.AllowedScopes, scope.Scope(name))
	}
	for _, action := range actions {
		configuration.AllowedActions = append(configuration.AllowedActions, ClientAction(action))
	}
	for _, grantType := range grantTypes {
		configuration.AllowedGrantTypes = append(configuration.AllowedGrantTypes, GrantType(grantType))
	}

	return configuration, nil
}

// FindByClientID retrieves a client configuration by its raw string id.
func (r *PostgresConfigurationRepository) FindByClientID(ctx context.Context, clientID string) (*ClientConfiguration, error) {
	return r.FindByID(ctx, ClientID(clientID))
}

// PostgresSecretRepository implements SecretRepository using PostgreSQL.
type PostgresSecretRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSecretRepository creates a new PostgreSQL client secret
// repository.
func NewPostgresSecretRepository(pool *pgxpool.Pool) *PostgresSecretRepository {
	return &PostgresSecretRepository{
		pool: pool,
	}
}

// FindByID retrieves a secret by its unique id.
func (r *PostgresSecretRepository) FindByID(ctx context.Context, id uuid.UUID) (*ClientSecret, error) {
	query := `
		SELECT id, client_id, hashed_secret
		FROM client_secrets
		WHERE id = $1
	`

	secret := &ClientSecret{}
	var clientID string

	err := r.pool.QueryRow(ctx, query, id).Scan(&secret.ID, &clientID, &secret.HashedSecret)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get client secret: %w", err)
	}

	secret.ClientID = ClientID(clientID)
	return secret, nil
}

// FindAllByClientID returns every secret on file for a client.
func (r *PostgresSecretRepository) FindAllByClientID(ctx context.Context, clientID string) ([]ClientSecret, error) {
	query := `
		SELECT id, client_id, hashed_secret
		FROM client_secrets
		WHERE client_id = $1
	`

	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list client secrets: %w", err)
	}
	defer rows.Close()

	var secrets []ClientSecret
	for rows.Next() {
		var secret ClientSecret
		var owner string
		if err := rows.Scan(&secret.ID, &owner, &secret.HashedSecret); err != nil {
			return nil, fmt.Errorf("failed to scan client secret: %w", err)
		}
		secret.ClientID = ClientID(owner)
		secrets = append(secrets, secret)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list client secrets: %w", err)
	}

	return secrets, nil
}
