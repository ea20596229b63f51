package auth

import (
	"time"

	"github.com/redsource/redsource-server/internal/errors"
	"github.com/redsource/redsource-server/users"
)

// DateLayout is the wire format of dates of birth.
const DateLayout = "2006-01-02"

// TokenTypeBearer is the token_type returned with every token pair.
const TokenTypeBearer = "Bearer"

// RegisterRequest carries a new account's profile. The password is plaintext
// and only ever hashed.
type RegisterRequest struct {
	Name               string         `json:"name"`
	Email              string         `json:"email"`
	Password           string         `json:"password"`
	ContactInformation string         `json:"contactInformation"`
	DateOfBirth        string         `json:"dateOfBirth"` // YYYY-MM-DD
	Role               users.RoleType `json:"role"`
	BloodTypeID        *int           `json:"bloodTypeId,omitempty"`
	ProfilePicture     string         `json:"profilePicture,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UpdateUserRequest is a partial update; nil fields are left untouched.
type UpdateUserRequest struct {
	Name               *string         `json:"name,omitempty"`
	Email              *string         `json:"email,omitempty"`
	Password           *string         `json:"password,omitempty"`
	ContactInformation *string         `json:"contactInformation,omitempty"`
	DateOfBirth        *string         `json:"dateOfBirth,omitempty"`
	Role               *users.RoleType `json:"role,omitempty"`
	BloodTypeID        *int            `json:"bloodTypeId,omitempty"`
	ProfilePicture     *string         `json:"profilePicture,omitempty"`
}

// TokenResponse is the access/refresh pair handed to the client after login
// or refresh. ExpiresIn is the access token lifetime in seconds.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.Wrapf(errors.ErrInvalidRequest, "%s is required", field)
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, errors.Wrapf(errors.ErrInvalidRequest, "%s must be formatted %s", field, DateLayout)
	}
	return t, nil
}

func parseRole(role users.RoleType) (users.RoleType, error) {
	if role == "" {
		return "", errors.Wrapf(errors.ErrInvalidRequest, "role is required")
	}
	return users.ParseRole(string(role))
}
