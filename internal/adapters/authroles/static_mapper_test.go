package authroles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	domainauth "github.com/target/fleet-alerts/internal/domain/auth"
)

func TestStaticRoleMapper_Map(t *testing.T) {
	m := StaticRoleMapper{AdminGroup: "fleet-admins", UserGroup: "fleet-users"}

	tests := []struct {
		name   string
		groups []string
		want   domainauth.Role
	}{
		{"admin wins", []string{"fleet-users", "fleet-admins"}, domainauth.RoleAdmin},
		{"case insensitive", []string{" FLEET-USERS "}, domainauth.RoleUser},
		{"no match", []string{"other"}, domainauth.RoleGuest},
		{"no groups", nil, domainauth.RoleGuest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Map(tt.groups))
		})
	}

	assert.Equal(t, domainauth.RoleGuest, StaticRoleMapper{}.Map([]string{""}))
}
