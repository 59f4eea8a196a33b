package config

import "time"

type OAuthConfig interface {
	GetResource() string
	GetIDTokenAudience() string
	GetSigningKeyID() string
	GetSigningKeyPEM() string
	GetPostLogoutRedirectURI() string
	GetDefaultAccessTokenExpiry() time.Duration
	GetDefaultIDTokenExpiry() time.Duration
	GetDefaultRefreshTokenExpiry() time.Duration
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

// GetResource names the API the access tokens are minted for. It becomes
// the aud claim of every access token.
func (OAuth) GetResource() string {
	return GetEnv("OAUTH_RESOURCE", "resource-server")
}

// GetIDTokenAudience is the client identifier placed in the aud claim of
// identity tokens.
func (OAuth) GetIDTokenAudience() string {
	return GetEnv("OAUTH_CLIENT_ID", "oidc-client")
}

// GetSigningKeyID labels the active signing key in the published JWKS.
func (OAuth) GetSigningKeyID() string {
	return GetEnv("OAUTH_SIGNING_KEY_ID", "default-signing-key")
}

// GetSigningKeyPEM returns a PEM encoded RSA private key, or "" to have the
// server generate an ephemeral key at startup.
func (OAuth) GetSigningKeyPEM() string {
	return GetEnv("OAUTH_SIGNING_KEY_PEM", "")
}

func (OAuth) GetPostLogoutRedirectURI() string {
	return GetEnv("OAUTH_POST_LOGOUT_REDIRECT_URI", "/")
}

func (OAuth) GetDefaultAccessTokenExpiry() time.Duration {
	return 15 * time.Minute
}

func (OAuth) GetDefaultIDTokenExpiry() time.Duration {
	return 1 * time.Hour
}

func (OAuth) GetDefaultRefreshTokenExpiry() time.Duration {
	return 7 * 24 * time.Hour // 7 days
}
