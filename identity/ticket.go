package identity

// DestinationRule maps a claim type to the scope that must be granted before
// the claim is released into the identity token. Rules are data, not code:
// adding a new claim/scope mapping is a new table entry, not a new branch.
type DestinationRule struct {
	ClaimType     ClaimType
	RequiredScope string
}

// TicketConfig enumerates everything the ticket builder needs to decide scope
// grants and claim destinations. It is passed in explicitly at construction;
// nothing is read from global state at mapping time.
type TicketConfig struct {
	// SupportedScopes is the server-side allow-list requested scopes are
	// intersected against.
	SupportedScopes []string

	// DestinationRules controls which claims additionally flow into the
	// identity token when their required scope was granted.
	DestinationRules []DestinationRule

	// SecurityStampClaimType is excluded from every destination.
	SecurityStampClaimType ClaimType

	// Resource is attached verbatim to every ticket as its resource indicator.
	Resource string
}

// Ticket is the immutable pre-encoding representation of a successful grant:
// who is authenticated, with which scopes, and which token each claim may
// appear in. It lives only long enough to be handed to the token encoder.
type Ticket struct {
	principal    *Principal
	scopes       []string
	resource     string
	destinations map[Claim][]Destination
}

// Principal returns the authenticated identity the ticket was built for.
func (t *Ticket) Principal() *Principal {
	return t.principal
}

// Scopes returns a copy of the granted scope set.
func (t *Ticket) Scopes() []string {
	scopes := make([]string, len(t.scopes))
	copy(scopes, t.scopes)
	return scopes
}

// HasScope reports whether a scope was granted.
func (t *Ticket) HasScope(scope string) bool {
	for _, s := range t.scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// Resource returns the ticket's resource indicator.
func (t *Ticket) Resource() string {
	return t.resource
}

// Destinations returns the tokens the given claim may be embedded into.
// Claims with no destinations (the security stamp) return an empty slice.
func (t *Ticket) Destinations(c Claim) []Destination {
	return t.destinations[c]
}

// DestinedFor reports whether the claim may appear in the given token.
func (t *Ticket) DestinedFor(c Claim, d Destination) bool {
	for _, dest := range t.destinations[c] {
		if dest == d {
			return true
		}
	}
	return false
}
