package oauth2

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
// Determines what credentials are required to obtain tokens.
type GrantType string

const (
	// PasswordGrant exchanges a resource owner's username/password for tokens.
	// Used in: Resource Owner Password Credentials Flow (RFC 6749 §4.3)
	// Token request includes: username, password, scope
	// Returns: access_token, id_token (if "openid" granted), refresh_token
	PasswordGrant GrantType = "password"

	// RefreshTokenGrant exchanges a refresh token for new tokens.
	// Used in: Token refresh flow (get new access token without re-authenticating)
	// Token request includes: refresh_token
	// Behavior: the presented refresh token is rotated - old one invalidated, new one issued
	RefreshTokenGrant GrantType = "refresh_token"
)

// Scopes supported by the token endpoint. Requested scopes outside this set
// are silently dropped during negotiation.
const (
	ScopeOpenID  = "openid"  // Enables issuing an ID token
	ScopeEmail   = "email"   // Releases the email claim into the ID token
	ScopeProfile = "profile" // Releases the name claim into the ID token
	ScopeRoles   = "roles"   // Releases role claims into the ID token
)
