package actor

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"supertenant", RoleSupertenant, true},
		{"superadmin", RoleSuperadmin, true},
		{"admin", RoleAdmin, true},
		{"user", RoleUser, true},
		{"  Admin ", RoleAdmin, true},
		{"SUPERADMIN", RoleSuperadmin, true},
		{"manager", Role("manager"), false},
		{"", Role(""), false},
	}
	for _, tc := range cases {
		got, ok := ParseRole(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleSupertenant.Valid())
	assert.True(t, RoleUser.Valid())
	assert.False(t, Role("root").Valid())
	assert.False(t, Role("").Valid())
}

func TestActorIs(t *testing.T) {
	a := Actor{UserID: uuid.New(), Role: RoleAdmin}
	assert.True(t, a.Is(RoleAdmin))
	assert.True(t, a.Is(RoleSuperadmin, RoleAdmin))
	assert.False(t, a.Is(RoleSuperadmin, RoleSupertenant))
	assert.False(t, a.Is())
}
