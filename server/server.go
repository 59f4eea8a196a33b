package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-oidc-credentials/auth"
	"github.com/jrsteele09/go-oidc-credentials/identity"
	"github.com/jrsteele09/go-oidc-credentials/internal/config"
	"github.com/jrsteele09/go-oidc-credentials/sessions"
	"github.com/jrsteele09/go-oidc-credentials/token"
	"github.com/jrsteele09/go-oidc-credentials/users"
)

// Repos collects the storage collaborators the server wires together.
type Repos struct {
	Users         users.Store
	Sessions      sessions.Repo
	RefreshTokens token.RefreshTokenRepo
}

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config
	auth   *auth.AuthorizationService
	tokens *token.Manager
	repos  Repos
}

func New(config config.Config, repos Repos) (*Server, error) {
	signer, err := newSigner(config)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create token signer: %w", err)
	}

	tokenManager := token.New(repos.RefreshTokens, signer,
		token.WithIssuer(config.GetBaseURL()),
		token.WithIDTokenAudience(config.GetIDTokenAudience()),
		token.WithTokenExpiry(
			config.GetDefaultAccessTokenExpiry(),
			config.GetDefaultIDTokenExpiry(),
			config.GetDefaultRefreshTokenExpiry(),
		),
	)

	authService, err := auth.NewAuthorizationService(auth.Repos{Users: repos.Users, Sessions: repos.Sessions}, tokenManager,
		identity.DefaultTicketConfig(config.GetResource()),
		auth.WithPostLogoutRedirect(config.GetPostLogoutRedirectURI()),
	)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create authorization service: %w", err)
	}

	s := &Server{
		mux:    http.NewServeMux(),
		config: config,
		repos:  repos,
		auth:   authService,
		tokens: tokenManager,
	}
	s.env = config.GetEnv()

	if err := s.seedUsers(); err != nil {
		return nil, fmt.Errorf("[Server New] failed to seed users: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

// newSigner uses the configured RSA private key, or generates an ephemeral
// key pair when no key is configured. Ephemeral keys invalidate issued
// tokens across restarts.
func newSigner(config config.Config) (token.Signer, error) {
	if pemData := config.GetSigningKeyPEM(); pemData != "" {
		keyPair, err := token.NewKeyPairFromPEM(config.GetSigningKeyID(), pemData)
		if err != nil {
			return nil, err
		}
		return token.NewKeyPairSigner(keyPair), nil
	}

	keyPair, err := token.GenerateRSAKeyPair(config.GetSigningKeyID(), 2048)
	if err != nil {
		return nil, err
	}
	return token.NewKeyPairSigner(keyPair), nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
