package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-oidc-credentials/identity"
	"github.com/jrsteele09/go-oidc-credentials/oauth2"
	"github.com/jrsteele09/go-oidc-credentials/sessions"
	"github.com/jrsteele09/go-oidc-credentials/users"
	"github.com/pkg/errors"
)

// Error descriptions fixed by the protocol surface. The credentials message is
// deliberately identical for unknown usernames and wrong passwords so the
// endpoint cannot be used for username enumeration.
const (
	invalidCredentialsDescription   = "The username/password couple is invalid."
	unsupportedGrantTypeDescription = "The specified grant type is not supported."
	invalidRefreshTokenDescription  = "The refresh token is no longer valid."
)

// TokenEncoder is the downstream session/token encoder consuming the tickets
// this service produces. Signing keys and token serialization live entirely
// behind it.
type TokenEncoder interface {
	// Encode turns an authentication ticket into wire tokens.
	Encode(ticket *identity.Ticket) (*oauth2.TokenResponse, error)

	// RedeemRefreshToken validates a refresh token, invalidates it, and
	// returns the subject and scope set it was issued for.
	RedeemRefreshToken(refreshToken string) (subject string, scopes []string, err error)

	// SignOut revokes every refresh token held by a subject.
	SignOut(subject string) error
}

// Repos holds all repository dependencies for the AuthorizationService
type Repos struct {
	Users    users.Store  // External user store (lookup, credential check, lockout)
	Sessions sessions.Repo // Local session store
}

// AuthorizationService implements the token endpoint's grant handling: it
// dispatches on grant type, authenticates resource owners, builds
// authentication tickets, and hands them to the token encoder.
type AuthorizationService struct {
	repos              Repos
	encoder            TokenEncoder
	tickets            *identity.TicketBuilder
	postLogoutRedirect string
	nowTime            func() time.Time // nowTime function (injectable for testing)
}

// AuthorizationServiceOption defines a function type to modify the AuthorizationService instance.
type AuthorizationServiceOption func(*AuthorizationService)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) AuthorizationServiceOption {
	return func(as *AuthorizationService) {
		as.nowTime = nowFunc
	}
}

// WithPostLogoutRedirect sets the target the transport layer redirects to
// after a sign-out.
func WithPostLogoutRedirect(uri string) AuthorizationServiceOption {
	return func(as *AuthorizationService) {
		as.postLogoutRedirect = uri
	}
}

// NewAuthorizationService initializes a new AuthorizationService with required
// dependencies. The ticket configuration is passed in explicitly; nothing is
// read from global state at claim-mapping time.
func NewAuthorizationService(
	repos Repos,
	encoder TokenEncoder,
	ticketCfg identity.TicketConfig,
	options ...AuthorizationServiceOption,
) (*AuthorizationService, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewAuthorizationService] Users store is required")
	}
	if repos.Sessions == nil {
		return nil, errors.New("[NewAuthorizationService] Sessions repo is required")
	}
	if encoder == nil {
		return nil, errors.New("[NewAuthorizationService] encoder is required")
	}

	authService := &AuthorizationService{
		repos:              repos,
		encoder:            encoder,
		tickets:            identity.NewTicketBuilder(ticketCfg),
		postLogoutRedirect: "/",
		nowTime:            time.Now,
	}

	for _, opt := range options {
		opt(authService)
	}

	return authService, nil
}

// Exchange handles the OAuth 2.0 token request. Every path through here
// yields either a token response or a structured *oauth2.Error; grant
// handlers never leak raw store failures to the caller.
//
// New grant types are added as new cases here, never by widening an existing
// handler.
func (as *AuthorizationService) Exchange(request *oauth2.TokenRequest) (*oauth2.TokenResponse, error) {
	switch request.GrantType {
	case oauth2.PasswordGrant:
		principal, err := as.authenticatePassword(request.Username, request.Password)
		if err != nil {
			return nil, err
		}
		return as.issueTicket(principal, request.Scopes())

	case oauth2.RefreshTokenGrant:
		return as.refreshGrant(request.RefreshToken)

	default:
		return nil, oauth2.NewError(oauth2.ErrorUnsupportedGrantType, unsupportedGrantTypeDescription)
	}
}

// authenticatePassword validates the username/password pair against the user
// store and builds the user's principal. Unknown usernames, wrong passwords,
// and locked-out accounts all collapse into the same invalid_grant error.
// Lockout bookkeeping is the store's responsibility.
func (as *AuthorizationService) authenticatePassword(username, password string) (*identity.Principal, error) {
	user, err := as.repos.Users.GetByUsername(username)
	if err != nil {
		return nil, oauth2.NewError(oauth2.ErrorInvalidGrant, invalidCredentialsDescription)
	}

	result, err := as.repos.Users.CheckPassword(user, password)
	if err != nil || result != users.PasswordCheckSuccess {
		return nil, oauth2.NewError(oauth2.ErrorInvalidGrant, invalidCredentialsDescription)
	}

	return PrincipalForUser(user), nil
}

func (as *AuthorizationService) refreshGrant(refreshToken string) (*oauth2.TokenResponse, error) {
	subject, scopes, err := as.encoder.RedeemRefreshToken(refreshToken)
	if err != nil {
		return nil, oauth2.NewError(oauth2.ErrorInvalidGrant, invalidRefreshTokenDescription)
	}

	user, err := as.repos.Users.GetByID(subject)
	if err != nil {
		return nil, oauth2.NewError(oauth2.ErrorInvalidGrant, invalidRefreshTokenDescription)
	}

	// Rebuild the ticket from a fresh principal so claim destinations always
	// reflect the current user record, under the originally granted scopes.
	return as.issueTicket(PrincipalForUser(user), scopes)
}

// issueTicket composes the ticket, hands it to the encoder, and records a
// local session for the subject. The ticket itself is discarded after
// encoding; it is never persisted.
func (as *AuthorizationService) issueTicket(principal *identity.Principal, requestedScopes []string) (*oauth2.TokenResponse, error) {
	ticket := as.tickets.Build(principal, requestedScopes)

	response, err := as.encoder.Encode(ticket)
	if err != nil {
		return nil, errors.Wrap(err, "[AuthorizationService.issueTicket] encoder.Encode")
	}

	if err := as.repos.Sessions.Upsert(uuid.New().String(), &sessions.SessionData{
		Subject:   principal.Subject,
		Timestamp: as.nowTime(),
	}); err != nil {
		return nil, errors.Wrap(err, SessionCreateErr.Error())
	}

	return response, nil
}

// UserInfo returns the standard OIDC claims for an already-authenticated
// subject. The bearer check happens at the transport boundary, not here.
func (as *AuthorizationService) UserInfo(subject string) (*oauth2.UserInfoResponse, error) {
	user, err := as.repos.Users.GetByID(subject)
	if err != nil {
		return nil, errors.Wrap(err, UserNotFoundErr.Error())
	}

	// Users hold at most one meaningful role for display purposes: admins are
	// "admin", everyone else is "editor".
	isAdmin, err := as.repos.Users.IsInRole(user, users.RoleAdmin)
	if err != nil {
		return nil, errors.Wrap(err, RoleLookupErr.Error())
	}
	role := users.RoleEditor
	if isAdmin {
		role = users.RoleAdmin
	}

	return &oauth2.UserInfoResponse{
		Subject:       user.ID,
		GivenName:     user.FirstName,
		FamilyName:    user.LastName,
		Name:          user.Username,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		Roles:         role,
	}, nil
}

// Logout terminates the subject's local sessions, revokes their refresh
// tokens, and returns the post-logout target the transport should redirect to.
func (as *AuthorizationService) Logout(subject string) (string, error) {
	if err := as.encoder.SignOut(subject); err != nil {
		return "", errors.Wrap(err, "[AuthorizationService.Logout] encoder.SignOut")
	}
	if err := as.repos.Sessions.DeleteBySubject(subject); err != nil {
		return "", errors.Wrap(err, SessionDeleteErr.Error())
	}
	return as.postLogoutRedirect, nil
}

// PrincipalForUser maps a stored user onto an identity principal. Claim order
// is fixed: subject, name, email, roles, security stamp.
func PrincipalForUser(user *users.User) *identity.Principal {
	claims := []identity.Claim{
		{Type: identity.ClaimSubject, Value: user.ID},
		{Type: identity.ClaimName, Value: user.Username},
	}
	if user.Email != "" {
		claims = append(claims, identity.Claim{Type: identity.ClaimEmail, Value: user.Email})
	}
	for _, role := range user.Roles {
		claims = append(claims, identity.Claim{Type: identity.ClaimRole, Value: role})
	}
	if user.SecurityStamp != "" {
		claims = append(claims, identity.Claim{Type: identity.ClaimSecurityStamp, Value: user.SecurityStamp})
	}

	return &identity.Principal{
		Subject: user.ID,
		Claims:  claims,
	}
}
