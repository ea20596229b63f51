package users_test

import (
	"testing"

	"github.com/redsource/redsource-server/internal/errors"
	"github.com/redsource/redsource-server/users"
	"github.com/stretchr/testify/require"
)

func TestAuthorities(t *testing.T) {
	testCases := []struct {
		role     users.RoleType
		expected []string
	}{
		{users.RoleDonor, []string{"ROLE_DONOR", "donor:read", "donor:update"}},
		{users.RoleBloodBank, []string{"ROLE_BLOODBANK", "bloodbank:read", "bloodbank:write", "bloodbank:update", "bloodbank:delete"}},
		{users.RoleHospital, []string{"ROLE_HOSPITAL", "hospital:read", "hospital:write", "hospital:update"}},
		{users.RoleAdmin, []string{"ROLE_ADMIN", "admin:read", "admin:write", "admin:update", "admin:delete"}},
	}

	for _, tc := range testCases {
		t.Run(string(tc.role), func(t *testing.T) {
			require.Equal(t, tc.expected, users.Authorities(tc.role))
			// Deterministic across calls
			require.Equal(t, users.Authorities(tc.role), users.Authorities(tc.role))
		})
	}

	require.Nil(t, users.Authorities("USER"))
}

func TestAuthoritiesReturnsCopy(t *testing.T) {
	a := users.Authorities(users.RoleDonor)
	a[1] = "tampered"
	require.Equal(t, "donor:read", users.Authorities(users.RoleDonor)[1])
}

func TestParseRole(t *testing.T) {
	role, err := users.ParseRole(" donor ")
	require.NoError(t, err)
	require.Equal(t, users.RoleDonor, role)

	role, err = users.ParseRole("BloodBank")
	require.NoError(t, err)
	require.Equal(t, users.RoleBloodBank, role)

	_, err = users.ParseRole("superuser")
	require.ErrorIs(t, err, users.ErrInvalidRole)
	require.ErrorIs(t, err, errors.ErrInvalidRequest)
}

func TestUserHasAuthority(t *testing.T) {
	u := &users.User{Role: users.RoleHospital}
	require.True(t, u.HasAuthority("ROLE_HOSPITAL"))
	require.True(t, u.HasAuthority(users.PermHospitalWrite))
	require.False(t, u.HasAuthority(users.PermAdminRead))
}

func TestPasswordHash(t *testing.T) {
	hash, err := users.HashPassword("secret1")
	require.NoError(t, err)
	require.NotEqual(t, "secret1", hash)
	require.True(t, users.CheckPasswordHash("secret1", hash))
	require.False(t, users.CheckPasswordHash("secret2", hash))
}
