package models

import "testing"

func TestHighestRole(t *testing.T) {
	cases := []struct {
		name  string
		roles []Role
		want  Role
	}{
		{"empty defaults to user", nil, RoleUser},
		{"single user", []Role{RoleUser}, RoleUser},
		{"admin over user", []Role{RoleUser, RoleAdmin}, RoleAdmin},
		{"super_admin wins regardless of order", []Role{RoleSuperAdmin, RoleUser, RoleAdmin}, RoleSuperAdmin},
		{"unknown roles ignored", []Role{Role("moderator"), RoleAdmin}, RoleAdmin},
		{"only unknown defaults to user", []Role{Role("moderator")}, RoleUser},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := HighestRole(c.roles); got != c.want {
				t.Errorf("HighestRole(%v) = %v, want %v", c.roles, got, c.want)
			}
		})
	}
}
