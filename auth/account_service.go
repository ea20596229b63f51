package auth

import (
	"context"
	"strings"

	"github.com/redsource/redsource-server/internal/errors"
	"github.com/redsource/redsource-server/internal/utils"
	"github.com/redsource/redsource-server/token/refresh"
	"github.com/redsource/redsource-server/users"
	"github.com/rs/zerolog/log"
)

// AccountService manages existing accounts.
type AccountService struct {
	users   users.UserRepo
	refresh *refresh.Manager
}

func NewAccountService(userRepo users.UserRepo, refreshManager *refresh.Manager) *AccountService {
	return &AccountService{users: userRepo, refresh: refreshManager}
}

func (as *AccountService) List(ctx context.Context, offset, limit int) ([]*users.User, error) {
	return as.users.List(ctx, offset, limit)
}

func (as *AccountService) Get(ctx context.Context, id string) (*users.User, error) {
	return as.users.GetByID(ctx, id)
}

// Update applies the non-nil fields of req. A password change revokes the
// account's refresh tokens.
func (as *AccountService) Update(ctx context.Context, id string, req UpdateUserRequest) (*users.User, error) {
	user, err := as.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = users.NormalizeEmail(*req.Email)
	}
	if req.ContactInformation != nil {
		user.ContactInformation = *req.ContactInformation
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = *req.ProfilePicture
	}
	if req.BloodTypeID != nil {
		user.BloodTypeID = utils.Ptr(utils.Value(req.BloodTypeID))
	}
	if req.DateOfBirth != nil {
		if user.DateOfBirth, err = parseDate("date of birth", *req.DateOfBirth); err != nil {
			return nil, err
		}
	}
	if req.Role != nil {
		if user.Role, err = parseRole(*req.Role); err != nil {
			return nil, err
		}
	}

	passwordChanged := false
	if req.Password != nil {
		if err := users.ValidatePassword(*req.Password); err != nil {
			return nil, err
		}
		if user.PasswordHash, err = users.HashPassword(*req.Password); err != nil {
			return nil, errors.Wrapf(err, "[Update] hash password")
		}
		passwordChanged = true
	}

	if err := users.ValidateProfile(user); err != nil {
		return nil, err
	}
	if err := as.users.Upsert(ctx, user); err != nil {
		return nil, err
	}

	if passwordChanged {
		if err := as.refresh.RevokeAll(ctx, user.ID); err != nil {
			return nil, errors.Wrapf(err, "[Update] revoke refresh tokens")
		}
	}
	return user, nil
}

// Delete removes the account and every refresh token it holds.
func (as *AccountService) Delete(ctx context.Context, id string) error {
	if _, err := as.users.GetByID(ctx, id); err != nil {
		return err
	}
	if err := as.refresh.RevokeAll(ctx, id); err != nil {
		return errors.Wrapf(err, "[Delete] revoke refresh tokens")
	}
	if err := as.refresh.Purge(ctx, id); err != nil {
		return errors.Wrapf(err, "[Delete] purge refresh tokens")
	}
	if err := as.users.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("user_id", id).Msg("account deleted")
	return nil
}
