package authroles

import (
	"strings"

	domainauth "github.com/target/fleet-alerts/internal/domain/auth"
)

// StaticRoleMapper maps identity-provider groups to roles by exact,
// case-insensitive membership. Admin membership wins over user membership;
// no match yields guest.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	if hasGroup(groups, m.AdminGroup) {
		return domainauth.RoleAdmin
	}
	if hasGroup(groups, m.UserGroup) {
		return domainauth.RoleUser
	}
	return domainauth.RoleGuest
}

func hasGroup(groups []string, want string) bool {
	if want == "" {
		return false
	}
	for _, g := range groups {
		if strings.EqualFold(strings.TrimSpace(g), want) {
			return true
		}
	}
	return false
}
