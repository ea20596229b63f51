package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/redsource/redsource-server/internal/errors"
	"github.com/redsource/redsource-server/users"
	"github.com/rs/zerolog/log"
)

const (
	generatedPasswordBytes = 18
	bootstrapAdminName     = "RedSource Administrator"
	bootstrapContact       = "n/a"
)

// InitialiseSystem seeds the ADMIN account named by ADMIN_EMAIL when it does
// not exist yet. Without ADMIN_EMAIL it does nothing.
func (s *Server) InitialiseSystem(ctx context.Context) error {
	email := users.NormalizeEmail(s.config.GetAdminEmail())
	if email == "" {
		return nil
	}
	if err := users.ValidateEmail(email); err != nil {
		return fmt.Errorf("[Server InitialiseSystem] ADMIN_EMAIL: %w", err)
	}

	if _, err := s.repos.Users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, errors.ErrNotFound) {
		return fmt.Errorf("[Server InitialiseSystem] lookup admin: %w", err)
	}

	password := s.config.GetAdminPassword()
	generated := password == ""
	if generated {
		var err error
		if password, err = generatePassword(); err != nil {
			return fmt.Errorf("[Server InitialiseSystem] generate password: %w", err)
		}
	}
	if err := users.ValidatePassword(password); err != nil {
		return fmt.Errorf("[Server InitialiseSystem] ADMIN_PASSWORD: %w", err)
	}

	hash, err := users.HashPassword(password)
	if err != nil {
		return fmt.Errorf("[Server InitialiseSystem] hash password: %w", err)
	}
	admin := &users.User{
		Email:              email,
		Name:               bootstrapAdminName,
		PasswordHash:       hash,
		Role:               users.RoleAdmin,
		DateOfBirth:        time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		ContactInformation: bootstrapContact,
	}
	if err := s.repos.Users.Upsert(ctx, admin); err != nil {
		return fmt.Errorf("[Server InitialiseSystem] create admin: %w", err)
	}

	event := log.Info().Str("email", email).Str("user_id", admin.ID)
	if generated {
		event = event.Str("password", password)
	}
	event.Msg("bootstrap: admin account created")
	return nil
}

func generatePassword() (string, error) {
	b := make([]byte, generatedPasswordBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
