package client

import (
	"context"

	"github.com/google/uuid"
)

// ClientSecret is one salted-hashed credential on file for a client. A
// client may hold several active secrets at once so that secrets can be
// rotated without a downtime window. Secrets are provisioned out of band
// and are read-only during authentication.
type ClientSecret struct {
	ID           uuid.UUID
	ClientID     ClientID
	HashedSecret string
}

// ConfigurationRepository provides read access to client policy records.
// "Not found" is (nil, nil); an error indicates a genuine storage failure.
type ConfigurationRepository interface {
	FindByID(ctx context.Context, clientID ClientID) (*ClientConfiguration, error)
	FindByClientID(ctx context.Context, clientID string) (*ClientConfiguration, error)
}

// SecretRepository provides read access to client secrets.
type SecretRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ClientSecret, error)
	FindAllByClientID(ctx context.Context, clientID string) ([]ClientSecret, error)
}
