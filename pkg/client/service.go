package client

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Authenticator resolves a client principal from presented credentials.
//
// Both operations are read-only. Every kind of credential failure, whether
// an unknown client, a wrong client type, or no matching secret, is reported
// as a nil principal with a nil error, so callers cannot distinguish which
// part failed. A non-nil error means the backing store failed and the
// request should be treated as retryable, never as a credential rejection.
type Authenticator interface {
	AuthenticateAsPublicClient(ctx context.Context, clientID string) (*PublicClient, error)
	AuthenticateAsConfidentialClient(ctx context.Context, clientID string, secret []byte) (*ConfidentialClient, error)
}

// AuthenticationService implements Authenticator on top of the secret and
// configuration repositories.
type AuthenticationService struct {
	secrets SecretRepository
	configs ConfigurationRepository
	hasher  *SecretHasher

	// Bounds concurrent Argon2 verifications so a burst of authentication
	// attempts cannot serialize the request-accept path behind slow hashes.
	verifySem *semaphore.Weighted
}

// AuthenticationServiceOption configures an AuthenticationService.
type AuthenticationServiceOption func(*AuthenticationService)

// WithSecretHasher overrides the secret hasher.
func WithSecretHasher(hasher *SecretHasher) AuthenticationServiceOption {
	return func(s *AuthenticationService) {
		s.hasher = hasher
	}
}

// WithMaxConcurrentVerifications caps how many secret verifications may run
// at once. Defaults to the number of CPUs.
func WithMaxConcurrentVerifications(n int64) AuthenticationServiceOption {
	return func(s *AuthenticationService) {
		s.verifySem = semaphore.NewWeighted(n)
	}
}

// NewAuthenticationService creates a new client authentication service.
func NewAuthenticationService(secrets SecretRepository, configs ConfigurationRepository, opts ...AuthenticationServiceOption) *AuthenticationService {
	service := &AuthenticationService{
		secrets:   secrets,
		configs:   configs,
		hasher:    NewSecretHasher(),
		verifySem: semaphore.NewWeighted(int64(runtime.NumCPU())),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// AuthenticateAsPublicClient resolves a public-client principal by id. A
// confidential client id yields nil just like an unknown one, so the lookup
// cannot be used to probe which clients exist.
func (s *AuthenticationService) AuthenticateAsPublicClient(ctx context.Context, clientID string) (*PublicClient, error) {
	configuration, err := s.configs.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to find client configuration: %w", err)
	}

	if configuration == nil || configuration.ClientType != ClientTypePublic {
		return nil, nil
	}

	return NewPublicClient(*configuration), nil
}

// AuthenticateAsConfidentialClient verifies a client secret against every
// secret on file for the client id and resolves a confidential-client
// principal on the first match. Verifying against all stored secrets lets a
// secret be rotated without a window where either value is rejected.
//
// The configuration is looked up only after a secret verifies, using the
// client id recorded on the matched secret rather than the caller-supplied
// one, so the configuration store is never an oracle for credential
// correctness.
func (s *AuthenticationService) AuthenticateAsConfidentialClient(ctx context.Context, clientID string, secret []byte) (*ConfidentialClient, error) {
	secrets, err := s.secrets.FindAllByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to find client secrets: %w", err)
	}

	if err := s.verifySem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.verifySem.Release(1)

	var owner *ClientID
	for _, candidate := range secrets {
		match, err := s.hasher.Verify(secret, candidate.HashedSecret)
		if err != nil {
			// A stored hash we cannot parse is a provisioning defect, not
			// a credential failure for the caller.
			slog.Warn("skipping unreadable client secret", "secretId", candidate.ID, "error", err)
			continue
		}
		if match {
			owner = &candidate.ClientID
			break
		}
	}

	if owner == nil {
		return nil, nil
	}

	configuration, err := s.configs.FindByID(ctx, *owner)
	if err != nil {
		return nil, fmt.Errorf("failed to find client configuration: %w", err)
	}

	if configuration == nil || configuration.ClientType != ClientTypeConfidential {
		return nil, nil
	}

	return NewConfidentialClient(*configuration), nil
}
