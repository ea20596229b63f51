package refreshrepofake

import (
	"context"
	"sort"
	"sync"

	"github.com/redsource/redsource-server/internal/errors"
	"github.com/redsource/redsource-server/token/refresh"
)

var _ refresh.Repo = (*FakeRefreshTokenRepo)(nil)

type FakeRefreshTokenRepo struct {
	tokens map[string]*refresh.RefreshToken // token value to record
	lock   sync.RWMutex
}

func NewFakeRefreshTokenRepo() refresh.Repo {
	return &FakeRefreshTokenRepo{
		tokens: make(map[string]*refresh.RefreshToken),
	}
}

func (tr *FakeRefreshTokenRepo) Issue(_ context.Context, rt *refresh.RefreshToken, supersedes string) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	if _, exists := tr.tokens[rt.Token]; exists {
		return errors.Wrapf(errors.ErrAlreadyExists, "refresh token")
	}
	if supersedes != "" {
		prev, ok := tr.tokens[supersedes]
		if !ok || prev.Revoked || prev.UserID != rt.UserID {
			return errors.Wrapf(errors.ErrTokenRevoked, "superseded refresh token")
		}
	}

	for _, existing := range tr.tokens {
		if existing.UserID == rt.UserID {
			existing.Revoked = true
		}
	}
	stored := *rt
	tr.tokens[rt.Token] = &stored
	return nil
}

func (tr *FakeRefreshTokenRepo) Get(_ context.Context, token string) (*refresh.RefreshToken, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	rt, ok := tr.tokens[token]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "refresh token")
	}
	cp := *rt
	return &cp, nil
}

func (tr *FakeRefreshTokenRepo) Revoke(_ context.Context, token string) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	rt, ok := tr.tokens[token]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "refresh token")
	}
	rt.Revoked = true
	return nil
}

func (tr *FakeRefreshTokenRepo) RevokeAllByUserID(_ context.Context, userID string) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	for _, rt := range tr.tokens {
		if rt.UserID == userID {
			rt.Revoked = true
		}
	}
	return nil
}

func (tr *FakeRefreshTokenRepo) Delete(_ context.Context, token string) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	if _, ok := tr.tokens[token]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "refresh token")
	}
	delete(tr.tokens, token)
	return nil
}

func (tr *FakeRefreshTokenRepo) DeleteByUserID(_ context.Context, userID string) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	for token, rt := range tr.tokens {
		if rt.UserID == userID {
			delete(tr.tokens, token)
		}
	}
	return nil
}

func (tr *FakeRefreshTokenRepo) ListByUserID(_ context.Context, userID string) ([]*refresh.RefreshToken, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	result := make([]*refresh.RefreshToken, 0)
	for _, rt := range tr.tokens {
		if rt.UserID == userID {
			cp := *rt
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}
