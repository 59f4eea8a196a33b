package oauth2

// TokenRequest holds parameters for the OAuth2 token request.
// This represents the request body sent to the /connect/token endpoint and is
// constructed once per HTTP call; it is never mutated after parsing.
type TokenRequest struct {
	// GrantType selects the grant handler. Only "password" and "refresh_token"
	// are recognised; anything else yields an unsupported_grant_type error.
	GrantType GrantType

	// Username identifies the resource owner (password grant only).
	Username string

	// Password is the resource owner's plaintext password (password grant only).
	// Security: never log or expose this value
	Password string

	// Scope is the raw space-delimited scope parameter as sent by the client.
	// May be empty, contain duplicates, or contain unsupported entries.
	Scope string

	// RefreshToken is the opaque refresh token (refresh_token grant only).
	RefreshToken string
}

// Scopes returns the client-requested scopes as a slice, in request order.
func (tr *TokenRequest) Scopes() []string {
	return ParseScopes(tr.Scope)
}
