package token

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-oidc-credentials/identity"
	"github.com/jrsteele09/go-oidc-credentials/oauth2"
	"github.com/pkg/errors"
)

const refreshTokenLength = 32 // 256 bits

// Manager encodes authentication tickets into wire tokens: a signed JWT
// access token, a signed JWT identity token when "openid" was granted, and an
// opaque rotating refresh token. Which principal claims land in which token
// is decided entirely by the ticket's claim destinations.
type Manager struct {
	refreshRepo        RefreshTokenRepo
	signer             Signer
	issuer             string
	idTokenAudience    string
	accessTokenExpiry  time.Duration
	idTokenExpiry      time.Duration
	refreshTokenExpiry time.Duration
	issueRefreshTokens bool
	nowFunc            func() time.Time
}

type ManagerOption func(*Manager)

func WithTokenExpiry(accessTokenExpiry, idTokenExpiry, refreshTokenExpiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessTokenExpiry = accessTokenExpiry
		m.idTokenExpiry = idTokenExpiry
		m.refreshTokenExpiry = refreshTokenExpiry
		m.issueRefreshTokens = refreshTokenExpiry > 0
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func WithIssuer(issuer string) ManagerOption {
	return func(m *Manager) {
		m.issuer = issuer
	}
}

func WithIDTokenAudience(audience string) ManagerOption {
	return func(m *Manager) {
		m.idTokenAudience = audience
	}
}

func New(repo RefreshTokenRepo, signer Signer, options ...ManagerOption) *Manager {
	m := &Manager{
		refreshRepo:        repo,
		signer:             signer,
		issueRefreshTokens: true,
	}

	for _, opt := range options {
		opt(m)
	}

	if m.accessTokenExpiry == 0 {
		m.accessTokenExpiry = 15 * time.Minute
	}
	if m.idTokenExpiry == 0 {
		m.idTokenExpiry = time.Hour
	}
	if m.refreshTokenExpiry == 0 {
		m.refreshTokenExpiry = 7 * 24 * time.Hour
	}
	if m.nowFunc == nil {
		m.nowFunc = time.Now
	}
	return m
}

// Encode turns an authentication ticket into the token endpoint's wire
// response. The ticket is consumed here and not retained.
func (m *Manager) Encode(ticket *identity.Ticket) (*oauth2.TokenResponse, error) {
	accessToken, err := m.createAccessToken(ticket)
	if err != nil {
		return nil, errors.Wrap(err, "Manager.Encode createAccessToken")
	}

	var idToken *string
	if ticket.HasScope(oauth2.ScopeOpenID) {
		idToken, err = m.createIdentityToken(ticket)
		if err != nil {
			return nil, errors.Wrap(err, "Manager.Encode createIdentityToken")
		}
	}

	var refreshToken *string
	if m.issueRefreshTokens {
		refreshToken, err = m.createRefreshToken(ticket)
		if err != nil {
			return nil, errors.Wrap(err, "Manager.Encode createRefreshToken")
		}
	}

	return &oauth2.TokenResponse{
		AccessToken:  accessToken,
		IdToken:      idToken,
		TokenType:    "bearer",
		ExpiresIn:    int(m.accessTokenExpiry.Seconds()),
		RefreshToken: refreshToken,
		Scope:        oauth2.JoinScopes(ticket.Scopes()),
	}, nil
}

// createAccessToken embeds every claim destined for the access token. The
// access token is opaque to clients, so it carries the full claim detail.
func (m *Manager) createAccessToken(ticket *identity.Ticket) (*string, error) {
	claims := jwt.MapClaims{}
	embedClaims(claims, ticket, identity.DestinationAccessToken)

	claims["iss"] = m.issuer
	claims["aud"] = ticket.Resource()
	claims["sub"] = ticket.Principal().Subject
	claims["scope"] = oauth2.JoinScopes(ticket.Scopes())
	claims["iat"] = int64(m.nowFunc().Unix())
	claims["exp"] = int64(m.nowFunc().Add(m.accessTokenExpiry).Unix())
	claims["jti"] = uuid.New().String()

	return m.signToken(claims)
}

// createIdentityToken embeds only the claims the granted scopes released into
// the identity token; everything else stays out of the client-readable token.
func (m *Manager) createIdentityToken(ticket *identity.Ticket) (*string, error) {
	claims := jwt.MapClaims{}
	embedClaims(claims, ticket, identity.DestinationIdentityToken)

	claims["iss"] = m.issuer
	claims["aud"] = m.idTokenAudience
	claims["sub"] = ticket.Principal().Subject
	claims["iat"] = int64(m.nowFunc().Unix())
	claims["exp"] = int64(m.nowFunc().Add(m.idTokenExpiry).Unix())
	claims["jti"] = uuid.New().String()

	return m.signToken(claims)
}

// createRefreshToken stores an opaque random token carrying the subject and
// granted scopes. A subject holds at most one refresh token at a time.
func (m *Manager) createRefreshToken(ticket *identity.Ticket) (*string, error) {
	subject := ticket.Principal().Subject

	if existingToken, err := m.refreshRepo.GetBySubject(subject); err == nil && existingToken != nil {
		if err := m.refreshRepo.Delete(existingToken.Token); err != nil {
			return nil, errors.Wrap(err, "Manager.createRefreshToken Delete")
		}
	}

	tokenBytes := make([]byte, refreshTokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, errors.Wrap(err, "Manager.createRefreshToken rand.Read")
	}

	tokenStr := hex.EncodeToString(tokenBytes)
	if err := m.refreshRepo.Upsert(&StoredRefreshToken{
		Token:   tokenStr,
		Subject: subject,
		Scope:   oauth2.JoinScopes(ticket.Scopes()),
		Iat:     m.nowFunc(),
	}); err != nil {
		return nil, errors.Wrap(err, "Manager.createRefreshToken Upsert")
	}

	return &tokenStr, nil
}

// RedeemRefreshToken validates and consumes a refresh token, returning the
// subject and scopes the token was issued for. The token is deleted whether
// expired or redeemed; the caller issues a fresh one through Encode.
func (m *Manager) RedeemRefreshToken(refreshToken string) (string, []string, error) {
	rt, err := m.refreshRepo.Get(refreshToken)
	if err != nil {
		return "", nil, errors.New("invalid refresh token")
	}

	if m.nowFunc().Sub(rt.Iat) > m.refreshTokenExpiry {
		_ = m.refreshRepo.Delete(refreshToken)
		return "", nil, errors.New("refresh token expired")
	}

	if err := m.refreshRepo.Delete(refreshToken); err != nil {
		return "", nil, errors.Wrap(err, "Manager.RedeemRefreshToken Delete")
	}

	return rt.Subject, oauth2.ParseScopes(rt.Scope), nil
}

// SignOut revokes the subject's refresh token, if any.
func (m *Manager) SignOut(subject string) error {
	rt, err := m.refreshRepo.GetBySubject(subject)
	if err != nil || rt == nil {
		return nil
	}
	return m.refreshRepo.Delete(rt.Token)
}

// VerifyAccessToken parses and validates a bearer token, returning the
// subject it was issued to. Used by the transport's bearer middleware.
func (m *Manager) VerifyAccessToken(rawToken string) (string, error) {
	parsed, err := jwt.Parse(rawToken, m.signer.GetVerificationKey, jwt.WithTimeFunc(m.nowFunc))
	if err != nil || !parsed.Valid {
		return "", errors.Wrap(err, "invalid token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("error extracting claims from token")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("token missing sub claim")
	}
	return sub, nil
}

// GetJWKS returns the JSON Web Key Set for public key distribution.
// Only works with KeyPairSigner (asymmetric keys).
func (m *Manager) GetJWKS() (*JWKS, error) {
	keyPairSigner, ok := m.signer.(*KeyPairSigner)
	if !ok {
		return nil, errors.New("JWKS only supported for asymmetric signing (RSA)")
	}
	return keyPairSigner.GetJWKS()
}

func (m *Manager) signToken(claims jwt.MapClaims) (*string, error) {
	signedToken, err := m.signer.Sign(claims)
	if err != nil {
		return nil, err
	}
	return &signedToken, nil
}

// embedClaims copies every principal claim destined for dest into the JWT
// claim map. Repeated claim types (roles) accumulate into a slice.
func embedClaims(mapClaims jwt.MapClaims, ticket *identity.Ticket, dest identity.Destination) {
	for _, claim := range ticket.Principal().Claims {
		if !ticket.DestinedFor(claim, dest) {
			continue
		}
		key := string(claim.Type)
		switch existing := mapClaims[key].(type) {
		case nil:
			mapClaims[key] = claim.Value
		case string:
			mapClaims[key] = []string{existing, claim.Value}
		case []string:
			mapClaims[key] = append(existing, claim.Value)
		}
	}
}
