package token

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryRepository implements Repository using in-memory storage.
type InMemoryRepository struct {
	mu     sync.RWMutex
	tokens map[uuid.UUID]AccessToken
}

// NewInMemoryRepository creates a new in-memory token repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		tokens: make(map[uuid.UUID]AccessToken),
	}
}

// Save stores a token, replacing any existing token with the same id.
func (r *InMemoryRepository) Save(ctx context.Context, token AccessToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.ID] = token
	return nil
}

// Get looks up a token by id.
func (r *InMemoryRepository) Get(ctx context.Context, id uuid.UUID) (*AccessToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	token, ok := r.tokens[id]
	if !ok {
		return nil, nil
	}
	return &token, nil
}
