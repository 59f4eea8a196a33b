package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Connect routes
	RouteConnectToken    = "/connect/token"
	RouteConnectUserInfo = "/connect/userinfo"
	RouteConnectLogout   = "/connect/logout"

	// OIDC metadata routes
	RouteWellKnownOpenIDConfig = "/.well-known/openid-configuration"
	RouteWellKnownJWKS         = "/.well-known/jwks.json"
)
