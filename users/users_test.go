package users_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/redsource/redsource-server/internal/utils"
	"github.com/redsource/redsource-server/users"
	"github.com/stretchr/testify/require"
)

func TestUserJSON(t *testing.T) {
	u := users.User{
		ID:                 "u-1",
		Email:              "alice@example.com",
		Name:               "Alice",
		PasswordHash:       "secret-hash",
		Role:               users.RoleDonor,
		BloodTypeID:        utils.Ptr(3),
		DateOfBirth:        time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC),
		ContactInformation: "+44 7000 000000",
		ProfilePicture:     "https://img.example/alice.png",
		CreatedAt:          time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:          time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(u)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	for _, key := range []string{"id", "email", "name", "role", "bloodTypeId", "dateOfBirth",
		"contactInformation", "profilePicture", "createdAt", "updatedAt"} {
		require.Contains(t, fields, key)
	}
	for _, key := range []string{"passwordHash", "PasswordHash", "date_of_birth", "blood_type_id", "created_at"} {
		require.NotContains(t, fields, key)
	}
	require.NotContains(t, string(raw), "secret-hash")
}
