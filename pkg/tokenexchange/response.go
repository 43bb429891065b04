package tokenexchange

// ErrorType is one of the machine-readable error codes defined by
// https://www.rfc-editor.org/rfc/rfc6749#section-5.2, used verbatim on
// the wire.
type ErrorType string

const (
	// The request is missing a required parameter, includes an unsupported
	// parameter value, repeats a parameter, or is otherwise malformed.
	ErrorInvalidRequest ErrorType = "invalid_request"

	// Client authentication failed.
	ErrorInvalidClient ErrorType = "invalid_client"

	// The provided authorization grant is invalid, expired, or revoked.
	ErrorInvalidGrant ErrorType = "invalid_grant"

	// The requested scope is invalid, unknown, malformed, or exceeds the
	// scope granted by the resource owner.
	ErrorInvalidScope ErrorType = "invalid_scope"

	// The authenticated client is not authorized to use this grant type.
	ErrorUnauthorizedClient ErrorType = "unauthorized_client"

	// The authorization grant type is not supported by this server.
	ErrorUnsupportedGrantType ErrorType = "unsupported_grant_type"
)

// Response is the JSON body returned by the token endpoint: either a
// success carrying the issued token or a failure carrying one of the
// closed set of error codes. Success fields follow
// https://www.rfc-editor.org/rfc/rfc6749#section-5.1.
type Response struct {
	// The access token issued by the authorization server.
	AccessToken string `json:"access_token,omitempty"`

	// The type of the token issued as described in
	// https://www.rfc-editor.org/rfc/rfc6749#section-7.1
	TokenType string `json:"token_type,omitempty"`

	// The lifetime in seconds of the access token.
	ExpiresIn int64 `json:"expires_in,omitempty"`

	// OPTIONAL. The refresh token, which can be used to obtain new access
	// tokens using the same authorization grant.
	RefreshToken string `json:"refresh_token,omitempty"`

	// OPTIONAL if identical to the scope requested by the client;
	// otherwise REQUIRED.
	Scope string `json:"scope,omitempty"`

	// REQUIRED if the "state" parameter was present in the client
	// authorization request. The exact value received from the client.
	State string `json:"state,omitempty"`

	// A single ASCII error code from the defined list.
	Error ErrorType `json:"error,omitempty"`

	// Human-readable ASCII text providing additional information, used to
	// assist the client developer in understanding the error that occurred.
	ErrorDescription string `json:"error_description,omitempty"`
}

// Failure builds an error response.
func Failure(kind ErrorType, description string) Response {
	return Response{
		Error:            kind,
		ErrorDescription: description,
	}
}

// IsFailure reports whether the response carries an error code.
func (r Response) IsFailure() bool {
	return r.Error != ""
}
