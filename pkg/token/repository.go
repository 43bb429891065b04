package token

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores issued access tokens by id. "Not found" is (nil, nil);
// an error indicates a genuine storage failure.
type Repository interface {
	Save(ctx context.Context, token AccessToken) error
	Get(ctx context.Context, id uuid.UUID) (*AccessToken, error)
}
