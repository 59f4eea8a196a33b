package identity

// ClaimType identifies the kind of fact a claim carries about a subject.
// The vocabulary follows the standard JWT claim names where one exists.
// See https://www.iana.org/assignments/jwt/jwt.xhtml.
type ClaimType string

const (
	ClaimSubject    ClaimType = "sub"
	ClaimName       ClaimType = "name"
	ClaimGivenName  ClaimType = "given_name"
	ClaimFamilyName ClaimType = "family_name"
	ClaimEmail      ClaimType = "email"
	ClaimRole       ClaimType = "role"

	// ClaimSecurityStamp is the credential-rotation marker used to invalidate
	// sessions when a password changes. It must never appear in issued tokens.
	ClaimSecurityStamp ClaimType = "security_stamp"
)

// Claim is a single typed fact about an authenticated subject.
// Claims are value types; a principal never holds two claims with the same
// (Type, Value) pair.
type Claim struct {
	Type  ClaimType
	Value string
}

// Destination names a token a claim may be embedded into.
type Destination string

const (
	DestinationAccessToken   Destination = "access_token"
	DestinationIdentityToken Destination = "id_token"
)

// Principal is the server-side identity produced by the user store for one
// request. It is rehydrated fresh per request and never cached or shared.
type Principal struct {
	// Subject is the opaque unique identifier of the authenticated user.
	Subject string

	// Claims holds the subject's claims in insertion order.
	Claims []Claim
}

// ClaimValue returns the value of the first claim of the given type, or ""
// when the principal carries no such claim.
func (p *Principal) ClaimValue(t ClaimType) string {
	for _, c := range p.Claims {
		if c.Type == t {
			return c.Value
		}
	}
	return ""
}

// HasClaim reports whether the principal carries a claim of the given type.
func (p *Principal) HasClaim(t ClaimType) bool {
	for _, c := range p.Claims {
		if c.Type == t {
			return true
		}
	}
	return false
}
