package identity

import (
	"github.com/jrsteele09/go-oidc-credentials/oauth2"
)

// TicketBuilder composes a principal, a negotiated scope set, and a resource
// indicator into an authentication ticket ready for encoding.
type TicketBuilder struct {
	cfg TicketConfig
}

// DefaultTicketConfig returns the standard configuration: the four supported
// OIDC scopes, the name/email/role release rules, and the security stamp
// exclusion.
func DefaultTicketConfig(resource string) TicketConfig {
	return TicketConfig{
		SupportedScopes: []string{
			oauth2.ScopeOpenID,
			oauth2.ScopeEmail,
			oauth2.ScopeProfile,
			oauth2.ScopeRoles,
		},
		DestinationRules: []DestinationRule{
			{ClaimType: ClaimName, RequiredScope: oauth2.ScopeProfile},
			{ClaimType: ClaimEmail, RequiredScope: oauth2.ScopeEmail},
			{ClaimType: ClaimRole, RequiredScope: oauth2.ScopeRoles},
		},
		SecurityStampClaimType: ClaimSecurityStamp,
		Resource:               resource,
	}
}

func NewTicketBuilder(cfg TicketConfig) *TicketBuilder {
	return &TicketBuilder{cfg: cfg}
}

// Build negotiates the requested scopes against the supported allow-list and
// assigns each principal claim its token destinations:
//   - the security stamp claim receives no destination at all
//   - every other claim goes into the access token
//   - a claim additionally goes into the identity token when a destination
//     rule for its type names a scope that was granted
//
// Access tokens are opaque to the client, so they carry full claim detail;
// identity tokens are client-readable and only carry what the granted scopes
// released.
func (b *TicketBuilder) Build(principal *Principal, requestedScopes []string) *Ticket {
	granted := oauth2.NegotiateScopes(b.cfg.SupportedScopes, requestedScopes)

	destinations := make(map[Claim][]Destination, len(principal.Claims))
	for _, claim := range principal.Claims {
		if claim.Type == b.cfg.SecurityStampClaimType {
			continue
		}

		dests := []Destination{DestinationAccessToken}
		if b.identityTokenRelease(claim.Type, granted) {
			dests = append(dests, DestinationIdentityToken)
		}
		destinations[claim] = dests
	}

	return &Ticket{
		principal:    principal,
		scopes:       granted,
		resource:     b.cfg.Resource,
		destinations: destinations,
	}
}

func (b *TicketBuilder) identityTokenRelease(t ClaimType, grantedScopes []string) bool {
	for _, rule := range b.cfg.DestinationRules {
		if rule.ClaimType == t && oauth2.HasScope(grantedScopes, rule.RequiredScope) {
			return true
		}
	}
	return false
}
