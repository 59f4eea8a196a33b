package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-oidc-credentials/oauth2"
	"github.com/rs/zerolog/log"
)

// TokenHandler exchanges resource owner credentials or a refresh token for tokens
func (s *Server) TokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeJSONError(w, oauth2.ErrorInvalidRequest, "Failed to parse form data", http.StatusBadRequest)
			return
		}

		tokenReq := &oauth2.TokenRequest{
			GrantType:    oauth2.GrantType(r.FormValue("grant_type")),
			Username:     r.FormValue("username"),
			Password:     r.FormValue("password"),
			Scope:        r.FormValue("scope"),
			RefreshToken: r.FormValue("refresh_token"),
		}

		tokenResponse, err := s.auth.Exchange(tokenReq)
		if err != nil {
			oauthErr := oauth2.AsError(err)
			if oauthErr.Code == oauth2.ErrorServerError {
				log.Err(err).Str("grant_type", string(tokenReq.GrantType)).Msg("Token exchange failed")
			}
			writeJSONError(w, oauthErr.Code, oauthErr.Description, statusForError(oauthErr.Code))
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")
		_ = json.NewEncoder(w).Encode(tokenResponse)
	}
}

// UserInfoHandler returns the fixed-shape claims document for the bearer's subject
func (s *Server) UserInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, ok := s.bearerSubject(w, r)
		if !ok {
			return
		}

		userInfo, err := s.auth.UserInfo(subject)
		if err != nil {
			writeJSONError(w, oauth2.ErrorInvalidToken, "The access token refers to an unknown user", http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(userInfo)
	}
}

// LogoutHandler revokes the bearer's refresh tokens, removes their sessions
// and redirects to the configured post logout target
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, ok := s.bearerSubject(w, r)
		if !ok {
			return
		}

		redirect, err := s.auth.Logout(subject)
		if err != nil {
			log.Err(err).Msg("Logout failed")
			writeJSONError(w, oauth2.ErrorServerError, "An unexpected error occurred.", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, redirect, http.StatusFound)
	}
}

// WellKnownOpenIDConfigHandler serves the OIDC discovery document
func (s *Server) WellKnownOpenIDConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		issuer := s.config.GetBaseURL()

		resp := map[string]any{
			"issuer":               issuer,
			"token_endpoint":       issuer + RouteConnectToken,
			"userinfo_endpoint":    issuer + RouteConnectUserInfo,
			"end_session_endpoint": issuer + RouteConnectLogout,
			"jwks_uri":             issuer + RouteWellKnownJWKS,

			"grant_types_supported": []string{
				"password",
				"refresh_token",
			},

			"scopes_supported": []string{
				"openid",  // Returns ID token
				"email",   // Releases email into the ID token
				"profile", // Releases name into the ID token
				"roles",   // Role membership
			},

			"response_types_supported": []string{"token"},
			"subject_types_supported":  []string{"public"},

			"id_token_signing_alg_values_supported": []string{"RS256"},

			// Claims returned by the userinfo endpoint
			"claims_supported": []string{
				"sub",
				"name",
				"given_name",
				"family_name",
				"email",
				"email_verified",
				"roles",
			},
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600") // Cache for 1 hour
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// JWKSHandler returns the JSON Web Key Set used to validate tokens
func (s *Server) JWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jwks, err := s.tokens.GetJWKS()
		if err != nil {
			writeJSONError(w, oauth2.ErrorServerError, "Failed to get JWKS", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600") // Cache for 1 hour
		_ = json.NewEncoder(w).Encode(jwks)
	}
}

// bearerSubject extracts and verifies the bearer access token, writing the
// error response itself when the token is missing or invalid.
func (s *Server) bearerSubject(w http.ResponseWriter, r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		writeJSONError(w, oauth2.ErrorInvalidToken, "Missing Authorization header", http.StatusUnauthorized)
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		writeJSONError(w, oauth2.ErrorInvalidToken, "Invalid Authorization header format", http.StatusUnauthorized)
		return "", false
	}

	subject, err := s.tokens.VerifyAccessToken(parts[1])
	if err != nil {
		writeJSONError(w, oauth2.ErrorInvalidToken, "The access token is invalid or has expired", http.StatusUnauthorized)
		return "", false
	}

	return subject, true
}

func statusForError(code string) int {
	if code == oauth2.ErrorServerError {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// writeJSONError writes an OAuth2 error response
func writeJSONError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             errorCode,
		"error_description": description,
	})
}
