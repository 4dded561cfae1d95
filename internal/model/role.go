package model

import (
	"fmt"
	"strings"
)

// Role is the fixed role label carried by an account and its session tokens.
type Role string

const (
	RoleOwner        Role = "owner"
	RoleReceptionist Role = "receptionist"
	RoleStylist      Role = "stylist"
)

// ParseRole converts a stored or token-supplied label into a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleOwner, RoleReceptionist, RoleStylist:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string {
	return string(r)
}

// JoinRoles renders roles as "owner or receptionist".
func JoinRoles(roles []Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, " or ")
}
