package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, label := range []string{"owner", "receptionist", "stylist"} {
		r, err := ParseRole(label)
		require.NoError(t, err)
		require.Equal(t, label, r.String())
	}

	for _, label := range []string{"", "admin", "Owner"} {
		_, err := ParseRole(label)
		require.Error(t, err, label)
	}
}

func TestJoinRoles(t *testing.T) {
	require.Equal(t, "owner", JoinRoles([]Role{RoleOwner}))
	require.Equal(t, "owner or receptionist", JoinRoles([]Role{RoleOwner, RoleReceptionist}))
}
