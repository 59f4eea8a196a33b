package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/go-oidc-credentials/internal/config"
	"github.com/jrsteele09/go-oidc-credentials/server"
	fakesessionrepo "github.com/jrsteele09/go-oidc-credentials/sessions/repofake"
	fakerefreshtokenrepo "github.com/jrsteele09/go-oidc-credentials/token/repofake"
	fakeuserstore "github.com/jrsteele09/go-oidc-credentials/users/repofake"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const (
	testClientID = "oidc-client"
	seedUsername = "zeus"
	seedPassword = "P4ssw0rd!"
)

// testConfig keeps the production defaults but pins the base URL to the
// httptest listener so issuer checks line up.
type testConfig struct {
	config.EnvVars
	config.Cors
	config.OAuth
	baseURL string
}

func (c testConfig) GetBaseURL() string { return c.baseURL }
func (c testConfig) GetEnv() string     { return "TEST" }

type serverFixture struct {
	baseURL string
	repos   server.Repos
}

// startTestServer starts the full HTTP surface on an httptest listener. The
// handler is swapped in after construction because the server needs its own
// public URL as the token issuer.
func startTestServer(t *testing.T) *serverFixture {
	t.Helper()

	var handler atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.Load().(http.Handler).ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)

	repos := server.Repos{
		Users:         fakeuserstore.NewFakeUserStore(),
		Sessions:      fakesessionrepo.NewFakeSessionRepo(),
		RefreshTokens: fakerefreshtokenrepo.NewFakeRefreshTokenRepo(),
	}

	srv, err := server.New(testConfig{baseURL: ts.URL}, repos)
	require.NoError(t, err)
	handler.Store(http.Handler(srv))

	return &serverFixture{baseURL: ts.URL, repos: repos}
}

func (f *serverFixture) oauthConfig(t *testing.T, scopes ...string) (*oidc.Provider, *oauth2.Config) {
	t.Helper()

	provider, err := oidc.NewProvider(context.Background(), f.baseURL)
	require.NoError(t, err)

	return provider, &oauth2.Config{
		ClientID: testClientID,
		Endpoint: provider.Endpoint(),
		Scopes:   scopes,
	}
}

func postTokenForm(t *testing.T, baseURL string, form url.Values) (int, map[string]string) {
	t.Helper()

	resp, err := http.PostForm(baseURL+"/connect/token", form)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestTokenEndpoint_PasswordGrant(t *testing.T) {
	f := startTestServer(t)
	ctx := context.Background()

	provider, conf := f.oauthConfig(t, "openid", "profile")

	tok, err := conf.PasswordCredentialsToken(ctx, seedUsername, seedPassword)
	require.NoError(t, err)
	require.True(t, tok.Valid())
	require.Equal(t, "Bearer", tok.Type())
	require.NotEmpty(t, tok.RefreshToken)

	rawIDToken, ok := tok.Extra("id_token").(string)
	require.True(t, ok, "token response should carry an id_token for the openid scope")

	// Verify the identity token against the published discovery + JWKS data.
	verifier := provider.Verifier(&oidc.Config{ClientID: testClientID})
	idToken, err := verifier.Verify(ctx, rawIDToken)
	require.NoError(t, err)

	var claims struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	require.NoError(t, idToken.Claims(&claims))
	require.Equal(t, seedUsername, claims.Name, "profile scope releases the name claim")
	require.Empty(t, claims.Email, "email claim must stay out without the email scope")
	require.Empty(t, claims.Role, "role claim must stay out without the roles scope")
}

func TestTokenEndpoint_IDTokenOnlyWithOpenIDScope(t *testing.T) {
	f := startTestServer(t)

	_, conf := f.oauthConfig(t, "profile", "email")
	tok, err := conf.PasswordCredentialsToken(context.Background(), seedUsername, seedPassword)
	require.NoError(t, err)

	_, hasIDToken := tok.Extra("id_token").(string)
	require.False(t, hasIDToken)
}

func TestTokenEndpoint_InvalidCredentials(t *testing.T) {
	f := startTestServer(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "unknown user", username: "nobody", password: seedPassword},
		{name: "wrong password", username: seedUsername, password: "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := postTokenForm(t, f.baseURL, url.Values{
				"grant_type": {"password"},
				"username":   {tt.username},
				"password":   {tt.password},
				"scope":      {"openid"},
			})
			require.Equal(t, http.StatusBadRequest, status)
			require.Equal(t, map[string]string{
				"error":             "invalid_grant",
				"error_description": "The username/password couple is invalid.",
			}, body)
		})
	}
}

func TestTokenEndpoint_UnsupportedGrantType(t *testing.T) {
	f := startTestServer(t)

	status, body := postTokenForm(t, f.baseURL, url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {testClientID},
		"client_secret": {"whatever"},
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, map[string]string{
		"error":             "unsupported_grant_type",
		"error_description": "The specified grant type is not supported.",
	}, body)
}

func TestTokenEndpoint_RefreshGrant(t *testing.T) {
	f := startTestServer(t)
	ctx := context.Background()

	_, conf := f.oauthConfig(t, "openid", "email")

	initial, err := conf.PasswordCredentialsToken(ctx, seedUsername, seedPassword)
	require.NoError(t, err)
	require.NotEmpty(t, initial.RefreshToken)

	// Force a refresh by handing the token source only the refresh token.
	refreshed, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: initial.RefreshToken}).Token()
	require.NoError(t, err)
	require.True(t, refreshed.Valid())
	require.NotEqual(t, initial.AccessToken, refreshed.AccessToken)
	require.NotEqual(t, initial.RefreshToken, refreshed.RefreshToken, "refresh tokens rotate on use")

	// The consumed refresh token is gone.
	status, body := postTokenForm(t, f.baseURL, url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {initial.RefreshToken},
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "invalid_grant", body["error"])
}

func TestUserInfoEndpoint(t *testing.T) {
	f := startTestServer(t)
	ctx := context.Background()

	_, conf := f.oauthConfig(t, "openid")
	tok, err := conf.PasswordCredentialsToken(ctx, seedUsername, seedPassword)
	require.NoError(t, err)

	getUserInfo := func(t *testing.T) []byte {
		t.Helper()
		req, err := http.NewRequest(http.MethodGet, f.baseURL+"/connect/userinfo", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok.AccessToken)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return body
	}

	first := getUserInfo(t)

	var info map[string]any
	require.NoError(t, json.Unmarshal(first, &info))
	require.Equal(t, seedUsername, info["name"])
	require.Equal(t, "John", info["given_name"])
	require.Equal(t, "Doe", info["family_name"])
	require.Equal(t, "fake@nowhere.com", info["email"])
	require.Equal(t, true, info["email_verified"])
	require.Equal(t, "admin", info["roles"])
	require.NotEmpty(t, info["sub"])

	// Unchanged user, byte-identical payload.
	require.Equal(t, first, getUserInfo(t))
}

func TestUserInfoEndpoint_RejectsBadTokens(t *testing.T) {
	f := startTestServer(t)

	tests := []struct {
		name       string
		authHeader string
	}{
		{name: "missing header", authHeader: ""},
		{name: "not a bearer scheme", authHeader: "Basic abc123"},
		{name: "garbage token", authHeader: "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, f.baseURL+"/connect/userinfo", nil)
			require.NoError(t, err)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.Equal(t, "invalid_token", body["error"])
		})
	}
}

func TestLogoutEndpoint(t *testing.T) {
	f := startTestServer(t)
	ctx := context.Background()

	_, conf := f.oauthConfig(t, "openid")
	tok, err := conf.PasswordCredentialsToken(ctx, seedUsername, seedPassword)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, f.baseURL+"/connect/logout", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)

	noRedirects := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}
	resp, err := noRedirects.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))

	// The refresh token issued before logout no longer redeems.
	status, body := postTokenForm(t, f.baseURL, url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {tok.RefreshToken},
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "invalid_grant", body["error"])
}

func TestDiscoveryDocument(t *testing.T) {
	f := startTestServer(t)

	resp, err := http.Get(f.baseURL + "/.well-known/openid-configuration")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc struct {
		Issuer          string   `json:"issuer"`
		TokenEndpoint   string   `json:"token_endpoint"`
		UserInfoURL     string   `json:"userinfo_endpoint"`
		JWKSURI         string   `json:"jwks_uri"`
		GrantTypes      []string `json:"grant_types_supported"`
		ScopesSupported []string `json:"scopes_supported"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	require.Equal(t, f.baseURL, doc.Issuer)
	require.Equal(t, f.baseURL+"/connect/token", doc.TokenEndpoint)
	require.Equal(t, f.baseURL+"/connect/userinfo", doc.UserInfoURL)
	require.Equal(t, f.baseURL+"/.well-known/jwks.json", doc.JWKSURI)
	require.Equal(t, []string{"password", "refresh_token"}, doc.GrantTypes)
	require.Equal(t, []string{"openid", "email", "profile", "roles"}, doc.ScopesSupported)
}
