package tokenexchange

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-oauth2/pkg/client"
	"github.com/tendant/simple-oauth2/pkg/scope"
	"github.com/tendant/simple-oauth2/pkg/token"
)

type testEnv struct {
	router chi.Router
	tokens *token.InMemoryRepository
}

// newTestEnv wires the endpoint against the in-memory stores with three
// seeded clients: a confidential client allowed the password grant, a
// public client, and a confidential client with no grants at all.
func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	configs := client.NewInMemoryConfigurationRepository()
	secrets := client.NewInMemorySecretRepository()
	hasher := client.NewSecretHasher()

	addSecret := func(clientID, plain string) {
		hashed, err := hasher.Hash([]byte(plain))
		require.NoError(t, err)
		secrets.AddSecret(client.ClientSecret{
			ID:           uuid.New(),
			ClientID:     client.ClientID(clientID),
			HashedSecret: hashed,
		})
	}

	configs.AddClient(client.ClientConfiguration{
		ClientID:          "aardvark",
		ClientType:        client.ClientTypeConfidential,
		AllowedScopes:     scope.Scopes{"basic", "read"},
		AllowedGrantTypes: []client.GrantType{client.GrantTypePassword},
	})
	addSecret("aardvark", "badger")

	configs.AddClient(client.ClientConfiguration{
		ClientID:   "badger",
		ClientType: client.ClientTypePublic,
	})

	// Public, with the password grant mistakenly listed in its
	// configuration. The grant must still be refused.
	configs.AddClient(client.ClientConfiguration{
		ClientID:          "dingo",
		ClientType:        client.ClientTypePublic,
		AllowedScopes:     scope.Scopes{"basic"},
		AllowedGrantTypes: []client.GrantType{client.GrantTypePassword},
	})

	configs.AddClient(client.ClientConfiguration{
		ClientID:          "cicada",
		ClientType:        client.ClientTypeConfidential,
		AllowedScopes:     scope.Scopes{"basic"},
		AllowedGrantTypes: nil,
	})
	addSecret("cicada", "hushhush")

	tokens := token.NewInMemoryRepository()
	handle := NewHandle(tokens, scope.DefaultRegistry())
	authenticator := client.NewAuthenticationService(secrets, configs)

	router := chi.NewRouter()
	Routes(router, handle, authenticator)

	return testEnv{
		router: router,
		tokens: tokens,
	}
}

type requestOption func(*http.Request)

func withBasicAuth(clientID, secret string) requestOption {
	return func(r *http.Request) {
		r.SetBasicAuth(clientID, secret)
	}
}

func (e testEnv) postToken(t *testing.T, form url.Values, opts ...requestOption) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, opt := range opts {
		opt(request)
	}

	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, request)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func passwordForm() url.Values {
	return url.Values{
		"grant_type": {"password"},
		"username":   {"alice"},
		"password":   {"hunter2"},
	}
}

func TestTokenExchangePasswordGrant(t *testing.T) {
	env := newTestEnv(t)

	t.Run("IssuesToken", func(t *testing.T) {
		form := passwordForm()
		form.Set("scope", "basic")

		recorder := env.postToken(t, form, withBasicAuth("aardvark", "badger"))
		require.Equal(t, http.StatusOK, recorder.Code)

		body := decodeBody(t, recorder)
		assert.Equal(t, "bearer", body["token_type"])
		assert.Equal(t, float64(7200), body["expires_in"])
		assert.Equal(t, "basic", body["scope"])
		assert.NotEmpty(t, body["refresh_token"])
		assert.NotContains(t, body, "state")
		assert.NotContains(t, body, "error")

		id, err := uuid.Parse(body["access_token"].(string))
		require.NoError(t, err, "access tokens are opaque uuids")
		stored, err := env.tokens.Get(context.Background(), id)
		require.NoError(t, err)
		assert.NotNil(t, stored, "the issued token must be persisted")
	})

	t.Run("OmittedScope", func(t *testing.T) {
		recorder := env.postToken(t, passwordForm(), withBasicAuth("aardvark", "badger"))
		require.Equal(t, http.StatusOK, recorder.Code)

		body := decodeBody(t, recorder)
		assert.NotContains(t, body, "scope", "no requested scopes means no echoed scopes")
	})

	t.Run("ScopeListRoundTrips", func(t *testing.T) {
		form := passwordForm()
		form.Set("scope", "basic read")

		recorder := env.postToken(t, form, withBasicAuth("aardvark", "badger"))
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "basic read", decodeBody(t, recorder)["scope"])
	})

	t.Run("EmptyPasswordPassesShapeValidation", func(t *testing.T) {
		form := passwordForm()
		form.Set("password", "")

		recorder := env.postToken(t, form, withBasicAuth("aardvark", "badger"))
		require.Equal(t, http.StatusOK, recorder.Code,
			"an empty password is a credential question, not a request-shape one")
		assert.NotEmpty(t, decodeBody(t, recorder)["access_token"])
	})

	t.Run("DistinctTokensPerRequest", func(t *testing.T) {
		first := decodeBody(t, env.postToken(t, passwordForm(), withBasicAuth("aardvark", "badger")))
		second := decodeBody(t, env.postToken(t, passwordForm(), withBasicAuth("aardvark", "badger")))
		assert.NotEqual(t, first["access_token"], second["access_token"])
	})
}

func TestTokenExchangePasswordGrantValidation(t *testing.T) {
	env := newTestEnv(t)

	expectFailure := func(t *testing.T, recorder *httptest.ResponseRecorder, code ErrorType, description string) {
		t.Helper()
		require.Equal(t, http.StatusBadRequest, recorder.Code)
		body := decodeBody(t, recorder)
		assert.Equal(t, string(code), body["error"])
		assert.Equal(t, description, body["error_description"])
		assert.NotContains(t, body, "access_token")
	}

	t.Run("GrantNotAllowedForClient", func(t *testing.T) {
		recorder := env.postToken(t, passwordForm(), withBasicAuth("cicada", "hushhush"))
		expectFailure(t, recorder, ErrorUnauthorizedClient, "client is not authorized for grant type: password")
	})

	t.Run("GrantNotAllowedForPublicClient", func(t *testing.T) {
		form := passwordForm()
		form.Set("client_id", "badger")

		recorder := env.postToken(t, form)
		expectFailure(t, recorder, ErrorUnauthorizedClient, "client is not authorized for grant type: password")
	})

	t.Run("GrantRefusedForPublicClientEvenWhenConfigured", func(t *testing.T) {
		form := passwordForm()
		form.Set("client_id", "dingo")

		recorder := env.postToken(t, form)
		expectFailure(t, recorder, ErrorUnauthorizedClient, "client is not authorized for grant type: password")
	})

	t.Run("AuthorizationCheckedBeforeFields", func(t *testing.T) {
		form := passwordForm()
		form.Del("username")

		recorder := env.postToken(t, form, withBasicAuth("cicada", "hushhush"))
		expectFailure(t, recorder, ErrorUnauthorizedClient, "client is not authorized for grant type: password")
	})

	t.Run("MissingUsername", func(t *testing.T) {
		form := passwordForm()
		form.Del("username")

		recorder := env.postToken(t, form, withBasicAuth("aardvark", "badger"))
		expectFailure(t, recorder, ErrorInvalidRequest, "missing parameter: username")
	})

	t.Run("BlankUsername", func(t *testing.T) {
		form := passwordForm()
		form.Set("username", "   ")

		recorder := env.postToken(t, form, withBasicAuth("aardvark", "badger"))
		expectFailure(t, recorder, ErrorInvalidRequest, "invalid parameter: username")
	})

	t.Run("MissingPassword", func(t *testing.T) {
		form := passwordForm()
		form.Del("password")

		recorder := env.postToken(t, form, withBasicAuth("aardvark", "badger"))
		expectFailure(t, recorder, ErrorInvalidRequest, "missing parameter: password")
	})

	t.Run("EmptyScope", func(t *testing.T) {
		form := passwordForm()
		form.Set("scope", "")

		recorder := env.postToken(t, form, withBasicAuth("aardvark", "badger"))
		expectFailure(t, recorder, ErrorInvalidScope, scope.ErrEmptyScopes.Error())
	})

	t.Run("BlankScope", func(t *testing.T) {
		form := passwordForm()
		form.Set("scope", "   ")

		recorder := env.postToken(t, form, withBasicAuth("aardvark", "badger"))
		expectFailure(t, recorder, ErrorInvalidScope, scope.ErrBlankScopes.Error())
	})

	t.Run("UnknownScope", func(t *testing.T) {
		form := passwordForm()
		form.Set("scope", "basic unknown")

		recorder := env.postToken(t, form, withBasicAuth("aardvark", "badger"))
		expectFailure(t, recorder, ErrorInvalidScope, scope.ErrInvalidScope.Error())
	})

	t.Run("DuplicateScope", func(t *testing.T) {
		form := passwordForm()
		form.Set("scope", "basic basic")

		recorder := env.postToken(t, form, withBasicAuth("aardvark", "badger"))
		expectFailure(t, recorder, ErrorInvalidScope, scope.ErrDuplicateScope.Error())
	})

	t.Run("ScopeNotAllowedForClient", func(t *testing.T) {
		form := passwordForm()
		form.Set("scope", "write")

		recorder := env.postToken(t, form, withBasicAuth("aardvark", "badger"))
		expectFailure(t, recorder, ErrorInvalidScope, "client is not authorized for the requested scopes")
	})
}

func TestTokenExchangeRequestGuards(t *testing.T) {
	env := newTestEnv(t)

	t.Run("MissingGrantType", func(t *testing.T) {
		form := passwordForm()
		form.Del("grant_type")

		recorder := env.postToken(t, form, withBasicAuth("aardvark", "badger"))
		require.Equal(t, http.StatusBadRequest, recorder.Code)
		body := decodeBody(t, recorder)
		assert.Equal(t, "invalid_request", body["error"])
		assert.Equal(t, "missing parameter: grant_type", body["error_description"])
	})

	t.Run("UnknownGrantType", func(t *testing.T) {
		form := passwordForm()
		form.Set("grant_type", "unknown")

		recorder := env.postToken(t, form, withBasicAuth("aardvark", "badger"))
		require.Equal(t, http.StatusBadRequest, recorder.Code)
		body := decodeBody(t, recorder)
		assert.Equal(t, "unsupported_grant_type", body["error"])
		assert.Equal(t, "unsupported: unknown", body["error_description"])
	})

	t.Run("NoCredentials", func(t *testing.T) {
		recorder := env.postToken(t, passwordForm())
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("BothCredentialChannels", func(t *testing.T) {
		form := passwordForm()
		form.Set("client_id", "badger")

		recorder := env.postToken(t, form, withBasicAuth("aardvark", "badger"))
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		recorder := env.postToken(t, passwordForm(), withBasicAuth("aardvark", "wrong"))
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("UnknownPublicClient", func(t *testing.T) {
		form := passwordForm()
		form.Set("client_id", "nobody")

		recorder := env.postToken(t, form)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("MethodNotAllowed", func(t *testing.T) {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete} {
			request := httptest.NewRequest(method, "/token", nil)
			recorder := httptest.NewRecorder()
			env.router.ServeHTTP(recorder, request)
			assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code, method)
		}
	})

	t.Run("UnsupportedMediaType", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(`{"grant_type":"password"}`))
		request.Header.Set("Content-Type", "application/json")
		request.SetBasicAuth("aardvark", "badger")

		recorder := httptest.NewRecorder()
		env.router.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusUnsupportedMediaType, recorder.Code)
	})
}

type failingTokenRepository struct{}

func (failingTokenRepository) Save(ctx context.Context, accessToken token.AccessToken) error {
	return errors.New("token store unavailable")
}

func (failingTokenRepository) Get(ctx context.Context, id uuid.UUID) (*token.AccessToken, error) {
	return nil, errors.New("token store unavailable")
}

func TestTokenExchangeStorageFailure(t *testing.T) {
	handle := NewHandle(failingTokenRepository{}, scope.DefaultRegistry())
	principal := client.NewConfidentialClient(client.ClientConfiguration{
		ClientID:          "aardvark",
		ClientType:        client.ClientTypeConfidential,
		AllowedGrantTypes: []client.GrantType{client.GrantTypePassword},
	})

	request := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(passwordForm().Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request = request.WithContext(client.WithPrincipal(request.Context(), principal))

	recorder := httptest.NewRecorder()
	handle.TokenExchange(recorder, request)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "error_description")
}

func TestAccessTokenLifetimeOption(t *testing.T) {
	handle := NewHandle(token.NewInMemoryRepository(), scope.DefaultRegistry(), WithAccessTokenLifetime(600))
	assert.Equal(t, int64(600), handle.accessTokenLifetime)
}
