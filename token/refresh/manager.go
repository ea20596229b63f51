package refresh

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/redsource/redsource-server/internal/config"
	"github.com/redsource/redsource-server/internal/errors"
	"github.com/redsource/redsource-server/users"
	"github.com/rs/zerolog/log"
)

// Manager handles refresh token creation, validation, revocation and rotation.
// A user has at most one active refresh token at any time.
type Manager struct {
	repo     Repo
	userRepo users.UserRepo
	expiry   time.Duration
	length   int
	nowFunc  func() time.Time
}

type ManagerOption func(*Manager)

// WithNowFunc overrides the clock (primarily for testing)
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// NewManager creates a new refresh token manager
func NewManager(repo Repo, userRepo users.UserRepo, cfg config.JWTConfig, options ...ManagerOption) *Manager {
	m := &Manager{
		repo:     repo,
		userRepo: userRepo,
		expiry:   cfg.GetRefreshTokenExpiry(),
		length:   cfg.GetRefreshTokenLength(),
		nowFunc:  time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Issue creates a new refresh token for userID, revoking any the user already holds.
func (m *Manager) Issue(ctx context.Context, userID string) (*RefreshToken, error) {
	if err := m.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	rt, err := m.newToken(userID)
	if err != nil {
		return nil, err
	}
	if err := m.repo.Issue(ctx, rt, ""); err != nil {
		return nil, errors.Wrapf(err, "Manager.Issue")
	}
	return rt, nil
}

// Verify returns the stored token if it exists, has not expired and has not
// been revoked. An expired token is deleted as a side effect.
func (m *Manager) Verify(ctx context.Context, token string) (*RefreshToken, error) {
	rt, err := m.repo.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if rt.IsExpired(m.nowFunc()) {
		if err := m.repo.Delete(ctx, rt.Token); err != nil && !errors.Is(err, errors.ErrNotFound) {
			log.Warn().Err(err).Str("user_id", rt.UserID).Msg("failed to delete expired refresh token")
		}
		return nil, errors.ErrTokenExpired
	}

	if rt.Revoked {
		return nil, errors.ErrTokenRevoked
	}
	return rt, nil
}

// Rotate verifies token and replaces it with a new token for the same user.
// The presented token cannot be used again afterwards; when two callers race
// with the same token only one of them gets a replacement.
func (m *Manager) Rotate(ctx context.Context, token string) (*RefreshToken, error) {
	current, err := m.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := m.ensureUser(ctx, current.UserID); err != nil {
		return nil, err
	}

	next, err := m.newToken(current.UserID)
	if err != nil {
		return nil, err
	}
	if err := m.repo.Issue(ctx, next, current.Token); err != nil {
		return nil, errors.Wrapf(err, "Manager.Rotate")
	}
	return next, nil
}

// Revoke marks token revoked. It is idempotent for known tokens.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	return m.repo.Revoke(ctx, token)
}

// RevokeAll revokes every token userID holds.
func (m *Manager) RevokeAll(ctx context.Context, userID string) error {
	return m.repo.RevokeAllByUserID(ctx, userID)
}

// Purge removes every token userID holds, used when the account is deleted.
func (m *Manager) Purge(ctx context.Context, userID string) error {
	return m.repo.DeleteByUserID(ctx, userID)
}

// Tokens lists the stored tokens of userID, revoked ones included.
func (m *Manager) Tokens(ctx context.Context, userID string) ([]*RefreshToken, error) {
	return m.repo.ListByUserID(ctx, userID)
}

func (m *Manager) ensureUser(ctx context.Context, userID string) error {
	if _, err := m.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return errors.Wrapf(errors.ErrPrincipalNotFound, "user %s", userID)
		}
		return errors.Wrapf(err, "Manager lookup user")
	}
	return nil
}

func (m *Manager) newToken(userID string) (*RefreshToken, error) {
	tokenBytes := make([]byte, m.length)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, errors.Wrapf(err, "failed to generate random bytes")
	}

	now := m.nowFunc()
	return &RefreshToken{
		ID:        uuid.New().String(),
		Token:     hex.EncodeToString(tokenBytes),
		UserID:    userID,
		ExpiresAt: now.Add(m.expiry),
		CreatedAt: now,
	}, nil
}
