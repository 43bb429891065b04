package token

import "github.com/google/uuid"

// TokenTypeBearer is the token_type issued by the token endpoint.
// https://www.rfc-editor.org/rfc/rfc6750
const TokenTypeBearer = "bearer"

// AccessToken is an issued access token. Tokens are opaque identifiers in
// this service; expiry and revocation are not modeled here.
type AccessToken struct {
	ID uuid.UUID
}
