package oauth2

import "strings"

// ParseScopes splits a space-delimited scope parameter into individual scope
// values, dropping empty entries.
func ParseScopes(scope string) []string {
	return strings.Fields(scope)
}

// JoinScopes renders a scope list back into the wire format.
func JoinScopes(scopes []string) string {
	return strings.Join(scopes, " ")
}

// NegotiateScopes intersects the client-requested scopes with the server's
// supported list. The result preserves the supported-list order, contains no
// duplicates, and is always a subset of supported - whatever the client sent.
func NegotiateScopes(supported, requested []string) []string {
	requestedSet := make(map[string]struct{}, len(requested))
	for _, s := range requested {
		requestedSet[s] = struct{}{}
	}

	granted := make([]string, 0, len(supported))
	for _, s := range supported {
		if _, ok := requestedSet[s]; ok {
			granted = append(granted, s)
		}
	}
	return granted
}

// HasScope reports whether a scope is present in the granted list.
func HasScope(scopes []string, scope string) bool {
	for _, s := range scopes {
		if s == scope {
			return true
		}
	}
	return false
}
