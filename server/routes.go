package server

func (s *Server) initRoutes() {
	// OIDC metadata
	s.RegisterRouteHandler("GET "+RouteWellKnownOpenIDConfig, ChainMiddleware(s.WellKnownOpenIDConfigHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteWellKnownJWKS, ChainMiddleware(s.JWKSHandler(), s.APIMiddleware()...))

	// Token endpoint
	s.RegisterRouteHandler("POST "+RouteConnectToken, ChainMiddleware(s.TokenHandler(), s.APIMiddleware()...))

	// Endpoints requiring a bearer access token
	s.RegisterRouteHandler("GET "+RouteConnectUserInfo, ChainMiddleware(s.UserInfoHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteConnectLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
}
