package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentityFromClaims(t *testing.T) {
	require.Nil(t, IdentityFromClaims(map[string]interface{}{"email": "x@example.com"}))
	require.Nil(t, IdentityFromClaims(map[string]interface{}{"sub": "  "}))

	id := IdentityFromClaims(map[string]interface{}{
		"sub":                "kc-123",
		"email":              "a@example.com",
		"preferred_username": "alice",
		"role":               "editor",
		"roles":              []interface{}{"player", 7},
		"realm_access":       map[string]interface{}{"roles": []interface{}{"Admin"}},
		"exp":                float64(1700000000),
	})
	require.NotNil(t, id)
	require.Equal(t, "kc-123", id.Subject)
	require.Equal(t, "alice", id.Name)
	require.Equal(t, []string{"editor", "player", "Admin"}, id.Roles)
	require.True(t, id.HasRole("admin"))
	require.False(t, id.HasRole("owner"))
	require.False(t, id.AdminClaim)
	require.Equal(t, int64(1700000000), id.ExpiresAt.Unix())
}

func TestIdentity_HasRoleNil(t *testing.T) {
	var id *Identity
	require.False(t, id.HasRole("admin"))
}
