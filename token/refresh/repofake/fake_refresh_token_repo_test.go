package refreshrepofake_test

import (
	"context"
	"testing"
	"time"

	"github.com/redsource/redsource-server/internal/errors"
	"github.com/redsource/redsource-server/token/refresh"
	refreshrepofake "github.com/redsource/redsource-server/token/refresh/repofake"
	"github.com/stretchr/testify/require"
)

func newToken(id, value, userID string) *refresh.RefreshToken {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &refresh.RefreshToken{ID: id, Token: value, UserID: userID, ExpiresAt: now.Add(time.Hour), CreatedAt: now}
}

func TestFakeRefreshTokenRepo_IssueRevokesOwnTokensOnly(t *testing.T) {
	repo := refreshrepofake.NewFakeRefreshTokenRepo()
	ctx := context.Background()

	require.NoError(t, repo.Issue(ctx, newToken("1", "a", "alice"), ""))
	require.NoError(t, repo.Issue(ctx, newToken("2", "b", "bob"), ""))
	require.NoError(t, repo.Issue(ctx, newToken("3", "c", "alice"), ""))

	a, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, a.Revoked)

	b, err := repo.Get(ctx, "b")
	require.NoError(t, err)
	require.False(t, b.Revoked)

	list, err := repo.ListByUserID(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestFakeRefreshTokenRepo_Supersedes(t *testing.T) {
	repo := refreshrepofake.NewFakeRefreshTokenRepo()
	ctx := context.Background()

	require.NoError(t, repo.Issue(ctx, newToken("1", "a", "alice"), ""))
	require.NoError(t, repo.Issue(ctx, newToken("2", "b", "alice"), "a"))

	err := repo.Issue(ctx, newToken("3", "c", "alice"), "a")
	require.ErrorIs(t, err, errors.ErrTokenRevoked)
	_, err = repo.Get(ctx, "c")
	require.ErrorIs(t, err, errors.ErrNotFound)

	err = repo.Issue(ctx, newToken("4", "d", "bob"), "b")
	require.ErrorIs(t, err, errors.ErrTokenRevoked)
}

func TestFakeRefreshTokenRepo_ReturnsCopies(t *testing.T) {
	repo := refreshrepofake.NewFakeRefreshTokenRepo()
	ctx := context.Background()
	require.NoError(t, repo.Issue(ctx, newToken("1", "a", "alice"), ""))

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	got.Revoked = true

	again, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	require.False(t, again.Revoked)
}

func TestFakeRefreshTokenRepo_Delete(t *testing.T) {
	repo := refreshrepofake.NewFakeRefreshTokenRepo()
	ctx := context.Background()
	require.NoError(t, repo.Issue(ctx, newToken("1", "a", "alice"), ""))

	require.NoError(t, repo.Delete(ctx, "a"))
	require.ErrorIs(t, repo.Delete(ctx, "a"), errors.ErrNotFound)
	require.ErrorIs(t, repo.Revoke(ctx, "a"), errors.ErrNotFound)
}
