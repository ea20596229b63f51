package users

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is the authenticated principal. Email doubles as the username and is
// the subject of every access token issued for the account.
type User struct {
	ID                 string    `json:"id,omitempty"`                 // Unique identifier for the user
	Email              string    `json:"email,omitempty"`              // User's email address, also the login name
	Name               string    `json:"name,omitempty"`               // Display name
	PasswordHash       string    `json:"-"`                            // Hashed version of the user's password - never serialize
	Role               RoleType  `json:"role,omitempty"`               // Account type
	BloodTypeID        *int      `json:"bloodTypeId,omitempty"`        // Donor blood type reference
	DateOfBirth        time.Time `json:"dateOfBirth"`                  // Date of birth
	ContactInformation string    `json:"contactInformation,omitempty"` // Phone or address
	ProfilePicture     string    `json:"profilePicture,omitempty"`     // Profile picture URL
	CreatedAt          time.Time `json:"createdAt"`                    // Date and time when the user registered
	UpdatedAt          time.Time `json:"updatedAt"`                    // Last profile change
}

// Authorities returns the role authority followed by the role's permissions.
func (u *User) Authorities() []string {
	return Authorities(u.Role)
}

// HasAuthority reports whether the user's role grants authority.
func (u *User) HasAuthority(authority string) bool {
	for _, a := range u.Authorities() {
		if a == authority {
			return true
		}
	}
	return false
}

// NormalizeEmail trims and lower-cases an address so lookups are case insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
