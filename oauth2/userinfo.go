package oauth2

// UserInfoResponse is the fixed-shape payload returned by the userinfo
// endpoint, following the OpenID Connect standard claims.
// https://openid.net/specs/openid-connect-core-1_0.html#StandardClaims
type UserInfoResponse struct {
	Subject       string `json:"sub"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`

	// Roles is a single display label rather than a list: users are assumed
	// to hold at most one meaningful role - "admin" or "editor".
	Roles string `json:"roles"`
}
