package client

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryConfigurationRepository implements ConfigurationRepository using
// in-memory storage. It starts empty; clients are seeded by the caller.
type InMemoryConfigurationRepository struct {
	mu      sync.RWMutex
	configs map[ClientID]ClientConfiguration
}

// NewInMemoryConfigurationRepository creates a new in-memory client
// configuration repository.
func NewInMemoryConfigurationRepository() *InMemoryConfigurationRepository {
	return &InMemoryConfigurationRepository{
		configs: make(map[ClientID]ClientConfiguration),
	}
}

// AddClient registers a client configuration, replacing any existing entry
// for the same client id.
func (r *InMemoryConfigurationRepository) AddClient(configuration ClientConfiguration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[configuration.ClientID] = configuration
}

// FindByID looks up a client configuration by id.
func (r *InMemoryConfigurationRepository) FindByID(ctx context.Context, clientID ClientID) (*ClientConfiguration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	configuration, ok := r.configs[clientID]
	if !ok {
		return nil, nil
	}
	return &configuration, nil
}

// FindByClientID looks up a client configuration by its raw string id.
func (r *InMemoryConfigurationRepository) FindByClientID(ctx context.Context, clientID string) (*ClientConfiguration, error) {
	return r.FindByID(ctx, ClientID(clientID))
}

// InMemorySecretRepository implements SecretRepository using in-memory
// storage.
type InMemorySecretRepository struct {
	mu      sync.RWMutex
	secrets map[uuid.UUID]ClientSecret
}

// NewInMemorySecretRepository creates a new in-memory client secret
// repository.
func NewInMemorySecretRepository() *InMemorySecretRepository {
	return &InMemorySecretRepository{
		secrets: make(map[uuid.UUID]ClientSecret),
	}
}

// AddSecret registers a hashed secret for a client.
func (r *InMemorySecretRepository) AddSecret(secret ClientSecret) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.secrets[secret.ID] = secret
}

// FindByID looks up a secret by its unique id.
func (r *InMemorySecretRepository) FindByID(ctx context.Context, id uuid.UUID) (*ClientSecret, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	secret, ok := r.secrets[id]
	if !ok {
		return nil, nil
	}
	return &secret, nil
}

// FindAllByClientID returns every secret currently on file for a client.
func (r *InMemorySecretRepository) FindAllByClientID(ctx context.Context, clientID string) ([]ClientSecret, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var secrets []ClientSecret
	for _, secret := range r.secrets {
		if secret.ClientID.String() == clientID {
			secrets = append(secrets, secret)
		}
	}
	return secrets, nil
}
