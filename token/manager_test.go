package token_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-oidc-credentials/identity"
	"github.com/jrsteele09/go-oidc-credentials/token"
	fakerefreshtokenrepo "github.com/jrsteele09/go-oidc-credentials/token/repofake"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "http://localhost:8080"
	testAudience = "oidc-client"
	testResource = "resource-server"
	testSecret   = "test-signing-secret"
)

var testNow = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

type managerFixture struct {
	manager     *token.Manager
	refreshRepo *fakerefreshtokenrepo.FakeRefreshTokenRepo
	signer      token.Signer
	now         time.Time
}

func newManagerFixture(t *testing.T) *managerFixture {
	t.Helper()

	repo := fakerefreshtokenrepo.NewFakeRefreshTokenRepo()
	signer := token.NewHMACSigner(testSecret)
	now := testNow

	m := token.New(repo, signer,
		token.WithIssuer(testIssuer),
		token.WithIDTokenAudience(testAudience),
		token.WithTokenExpiry(15*time.Minute, time.Hour, 7*24*time.Hour),
		token.WithNowFunc(func() time.Time { return now }),
	)

	return &managerFixture{manager: m, refreshRepo: repo, signer: signer, now: now}
}

func (f *managerFixture) parseClaims(t *testing.T, rawToken string) jwtlib.MapClaims {
	t.Helper()

	parsed, err := jwtlib.Parse(rawToken, f.signer.GetVerificationKey, jwtlib.WithTimeFunc(func() time.Time { return f.now }))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	require.True(t, ok)
	return claims
}

func buildTicket(requestedScopes ...string) *identity.Ticket {
	builder := identity.NewTicketBuilder(identity.DefaultTicketConfig(testResource))
	principal := &identity.Principal{
		Subject: "user-1",
		Claims: []identity.Claim{
			{Type: identity.ClaimSubject, Value: "user-1"},
			{Type: identity.ClaimName, Value: "zeus"},
			{Type: identity.ClaimEmail, Value: "fake@nowhere.com"},
			{Type: identity.ClaimRole, Value: "admin"},
			{Type: identity.ClaimSecurityStamp, Value: "stamp-secret"},
		},
	}
	return builder.Build(principal, requestedScopes)
}

func TestManager_Encode_AccessToken(t *testing.T) {
	f := newManagerFixture(t)

	response, err := f.manager.Encode(buildTicket("openid", "profile"))
	require.NoError(t, err)
	require.NotNil(t, response.AccessToken)
	require.Equal(t, "bearer", response.TokenType)
	require.Equal(t, int((15 * time.Minute).Seconds()), response.ExpiresIn)
	require.Equal(t, "openid profile", response.Scope)

	claims := f.parseClaims(t, *response.AccessToken)
	require.Equal(t, testIssuer, claims["iss"])
	require.Equal(t, testResource, claims["aud"])
	require.Equal(t, "user-1", claims["sub"])
	require.Equal(t, "openid profile", claims["scope"])

	// The access token carries the full claim detail regardless of scopes.
	require.Equal(t, "zeus", claims["name"])
	require.Equal(t, "fake@nowhere.com", claims["email"])
	require.Equal(t, "admin", claims["role"])

	// The security stamp never leaves the server.
	require.NotContains(t, claims, "security_stamp")
}

func TestManager_Encode_IdentityToken(t *testing.T) {
	f := newManagerFixture(t)

	t.Run("absent without openid scope", func(t *testing.T) {
		response, err := f.manager.Encode(buildTicket("profile", "email"))
		require.NoError(t, err)
		require.Nil(t, response.IdToken)
	})

	t.Run("claims follow granted scopes", func(t *testing.T) {
		response, err := f.manager.Encode(buildTicket("openid", "profile"))
		require.NoError(t, err)
		require.NotNil(t, response.IdToken)

		claims := f.parseClaims(t, *response.IdToken)
		require.Equal(t, testAudience, claims["aud"])
		require.Equal(t, "user-1", claims["sub"])
		require.Equal(t, "zeus", claims["name"])
		require.NotContains(t, claims, "email")
		require.NotContains(t, claims, "role")
		require.NotContains(t, claims, "security_stamp")
	})

	t.Run("email released by email scope", func(t *testing.T) {
		response, err := f.manager.Encode(buildTicket("openid", "email"))
		require.NoError(t, err)

		claims := f.parseClaims(t, *response.IdToken)
		require.Equal(t, "fake@nowhere.com", claims["email"])
		require.NotContains(t, claims, "name")
	})
}

func TestManager_RefreshTokens(t *testing.T) {
	t.Run("issued and stored with granted scopes", func(t *testing.T) {
		f := newManagerFixture(t)

		response, err := f.manager.Encode(buildTicket("openid", "email"))
		require.NoError(t, err)
		require.NotNil(t, response.RefreshToken)

		stored, err := f.refreshRepo.Get(*response.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, "user-1", stored.Subject)
		require.Equal(t, "openid email", stored.Scope)
	})

	t.Run("one refresh token per subject", func(t *testing.T) {
		f := newManagerFixture(t)

		first, err := f.manager.Encode(buildTicket("openid"))
		require.NoError(t, err)
		second, err := f.manager.Encode(buildTicket("openid"))
		require.NoError(t, err)

		_, err = f.refreshRepo.Get(*first.RefreshToken)
		require.Error(t, err)
		_, err = f.refreshRepo.Get(*second.RefreshToken)
		require.NoError(t, err)
	})

	t.Run("redeem consumes the token", func(t *testing.T) {
		f := newManagerFixture(t)

		response, err := f.manager.Encode(buildTicket("openid", "profile"))
		require.NoError(t, err)

		subject, scopes, err := f.manager.RedeemRefreshToken(*response.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, "user-1", subject)
		require.Equal(t, []string{"openid", "profile"}, scopes)

		_, _, err = f.manager.RedeemRefreshToken(*response.RefreshToken)
		require.Error(t, err)
	})

	t.Run("expired tokens are rejected and removed", func(t *testing.T) {
		repo := fakerefreshtokenrepo.NewFakeRefreshTokenRepo()
		now := testNow
		m := token.New(repo, token.NewHMACSigner(testSecret),
			token.WithTokenExpiry(15*time.Minute, time.Hour, time.Hour),
			token.WithNowFunc(func() time.Time { return now }),
		)

		response, err := m.Encode(buildTicket("openid"))
		require.NoError(t, err)

		now = now.Add(2 * time.Hour)
		_, _, err = m.RedeemRefreshToken(*response.RefreshToken)
		require.Error(t, err)

		_, err = repo.Get(*response.RefreshToken)
		require.Error(t, err)
	})

	t.Run("sign out revokes the subject's token", func(t *testing.T) {
		f := newManagerFixture(t)

		response, err := f.manager.Encode(buildTicket("openid"))
		require.NoError(t, err)

		require.NoError(t, f.manager.SignOut("user-1"))
		_, _, err = f.manager.RedeemRefreshToken(*response.RefreshToken)
		require.Error(t, err)

		// Signing out a subject with no refresh token is not an error.
		require.NoError(t, f.manager.SignOut("user-1"))
	})
}

func TestManager_VerifyAccessToken(t *testing.T) {
	f := newManagerFixture(t)

	response, err := f.manager.Encode(buildTicket("openid"))
	require.NoError(t, err)

	t.Run("valid token yields the subject", func(t *testing.T) {
		subject, err := f.manager.VerifyAccessToken(*response.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "user-1", subject)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := f.manager.VerifyAccessToken("not-a-jwt")
		require.Error(t, err)
	})

	t.Run("wrong signing key is rejected", func(t *testing.T) {
		other := token.New(fakerefreshtokenrepo.NewFakeRefreshTokenRepo(), token.NewHMACSigner("different-secret"),
			token.WithNowFunc(func() time.Time { return testNow }))
		_, err := other.VerifyAccessToken(*response.AccessToken)
		require.Error(t, err)
	})
}

func TestManager_GetJWKS(t *testing.T) {
	t.Run("asymmetric signer exposes its public key", func(t *testing.T) {
		keyPair, err := token.GenerateRSAKeyPair("key-1", 2048)
		require.NoError(t, err)

		m := token.New(fakerefreshtokenrepo.NewFakeRefreshTokenRepo(), token.NewKeyPairSigner(keyPair))
		jwks, err := m.GetJWKS()
		require.NoError(t, err)
		require.Len(t, jwks.Keys, 1)
		require.Equal(t, "key-1", jwks.Keys[0].Kid)
		require.Equal(t, "RSA", jwks.Keys[0].Kty)
	})

	t.Run("symmetric signer has no JWKS", func(t *testing.T) {
		m := token.New(fakerefreshtokenrepo.NewFakeRefreshTokenRepo(), token.NewHMACSigner(testSecret))
		_, err := m.GetJWKS()
		require.Error(t, err)
	})
}
