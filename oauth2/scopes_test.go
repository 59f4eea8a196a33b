package oauth2_test

import (
	"testing"

	"github.com/jrsteele09/go-oidc-credentials/oauth2"
	"github.com/stretchr/testify/require"
)

func TestParseScopes(t *testing.T) {
	t.Run("space delimited", func(t *testing.T) {
		require.Equal(t, []string{"openid", "profile"}, oauth2.ParseScopes("openid profile"))
	})

	t.Run("empty", func(t *testing.T) {
		require.Empty(t, oauth2.ParseScopes(""))
	})

	t.Run("extra whitespace", func(t *testing.T) {
		require.Equal(t, []string{"openid", "email"}, oauth2.ParseScopes("  openid   email "))
	})
}

func TestNegotiateScopes(t *testing.T) {
	supported := []string{oauth2.ScopeOpenID, oauth2.ScopeEmail, oauth2.ScopeProfile, oauth2.ScopeRoles}

	tests := []struct {
		name      string
		requested []string
		want      []string
	}{
		{
			name:      "subset requested",
			requested: []string{"openid", "profile"},
			want:      []string{"openid", "profile"},
		},
		{
			name:      "empty request grants nothing",
			requested: nil,
			want:      []string{},
		},
		{
			name:      "unsupported entries dropped",
			requested: []string{"openid", "offline_access", "api.read"},
			want:      []string{"openid"},
		},
		{
			name:      "duplicates collapse",
			requested: []string{"email", "email", "email"},
			want:      []string{"email"},
		},
		{
			name:      "all supported requested out of order",
			requested: []string{"roles", "openid", "profile", "email"},
			want:      []string{"openid", "email", "profile", "roles"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			granted := oauth2.NegotiateScopes(supported, tt.requested)
			require.Equal(t, tt.want, granted)

			// The granted set is always a subset of what the server supports.
			for _, s := range granted {
				require.True(t, oauth2.HasScope(supported, s))
			}
		})
	}
}
