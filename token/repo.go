package token

import "time"

// StoredRefreshToken represents the server-side storage of refresh token
// metadata. The client only receives the Token field (a random string); the
// rest is used to rebuild the subject's ticket when the token is redeemed.
type StoredRefreshToken struct {
	Token   string    // The actual random token string (sent to client)
	Subject string    // User the token was issued to
	Scope   string    // Originally granted scopes, space delimited
	Iat     time.Time // Issued at time
}

// RefreshTokenRepo manages server-side storage of refresh token metadata.
// Refresh tokens sent to clients are opaque random strings; this repo stores
// the associated metadata keyed by the token string.
type RefreshTokenRepo interface {
	Upsert(refreshToken *StoredRefreshToken) error
	Delete(token string) error
	Get(token string) (*StoredRefreshToken, error)
	GetBySubject(subject string) (*StoredRefreshToken, error)
}
