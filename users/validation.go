package users

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/redsource/redsource-server/internal/errors"
)

const minPasswordLength = 6

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" || len(password) < minPasswordLength {
		return invalid("password", fmt.Sprintf("must be at least %d characters long", minPasswordLength))
	}
	return nil
}

// ValidateEmail checks the address is a bare RFC 5322 address.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return invalid("email", "is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("email", "invalid email format")
	}
	return nil
}

// ValidateProfile checks the fields every account must carry.
func ValidateProfile(u *User) error {
	if u == nil {
		return invalid("user", "is required")
	}
	if strings.TrimSpace(u.Name) == "" {
		return invalid("name", "is required")
	}
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if strings.TrimSpace(u.ContactInformation) == "" {
		return invalid("contact information", "is required")
	}
	if u.DateOfBirth.IsZero() {
		return invalid("date of birth", "is required")
	}
	if u.DateOfBirth.After(time.Now()) {
		return invalid("date of birth", "must be in the past")
	}
	if !u.Role.Valid() {
		return invalid("role", "is required")
	}
	return nil
}

func invalid(field, reason string) error {
	return fmt.Errorf("%s %s: %w", field, reason, errors.ErrInvalidRequest)
}
