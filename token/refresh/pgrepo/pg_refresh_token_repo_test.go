package pgrefreshrepo_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/redsource/redsource-server/internal/errors"
	"github.com/redsource/redsource-server/token/refresh"
	pgrefreshrepo "github.com/redsource/redsource-server/token/refresh/pgrepo"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "token", "user_id", "expires_at", "revoked", "created_at"}

func newRepo(t *testing.T) (*pgrefreshrepo.PGRefreshTokenRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return pgrefreshrepo.NewPGRefreshTokenRepo(db), mock
}

func newToken() *refresh.RefreshToken {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &refresh.RefreshToken{
		ID:        "rt-1",
		Token:     "abc123",
		UserID:    "user-1",
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
}

func TestPGRefreshTokenRepo_Issue(t *testing.T) {
	repo, mock := newRepo(t)
	rt := newToken()

	mock.ExpectBegin()
	mock.ExpectQuery("select id from users where id=\\$1 for update").
		WithArgs(rt.UserID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(rt.UserID))
	mock.ExpectExec("update refresh_tokens set revoked=true where user_id").
		WithArgs(rt.UserID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("insert into refresh_tokens").
		WithArgs(rt.ID, rt.Token, rt.UserID, rt.ExpiresAt, false, rt.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Issue(context.Background(), rt, ""))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRefreshTokenRepo_IssueUnknownUser(t *testing.T) {
	repo, mock := newRepo(t)
	rt := newToken()

	mock.ExpectBegin()
	mock.ExpectQuery("select id from users").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.Issue(context.Background(), rt, "")
	require.ErrorIs(t, err, errors.ErrPrincipalNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRefreshTokenRepo_IssueSupersededAlreadyRevoked(t *testing.T) {
	repo, mock := newRepo(t)
	rt := newToken()

	mock.ExpectBegin()
	mock.ExpectQuery("select id from users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(rt.UserID))
	mock.ExpectQuery("select revoked from refresh_tokens").
		WithArgs("old-token", rt.UserID).
		WillReturnRows(sqlmock.NewRows([]string{"revoked"}).AddRow(true))
	mock.ExpectRollback()

	err := repo.Issue(context.Background(), rt, "old-token")
	require.ErrorIs(t, err, errors.ErrTokenRevoked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRefreshTokenRepo_IssueSuperseded(t *testing.T) {
	repo, mock := newRepo(t)
	rt := newToken()

	mock.ExpectBegin()
	mock.ExpectQuery("select id from users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(rt.UserID))
	mock.ExpectQuery("select revoked from refresh_tokens").
		WillReturnRows(sqlmock.NewRows([]string{"revoked"}).AddRow(false))
	mock.ExpectExec("update refresh_tokens").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("insert into refresh_tokens").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Issue(context.Background(), rt, "old-token"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRefreshTokenRepo_Get(t *testing.T) {
	repo, mock := newRepo(t)
	rt := newToken()

	mock.ExpectQuery("select .* from refresh_tokens where token").
		WithArgs(rt.Token).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(rt.ID, rt.Token, rt.UserID, rt.ExpiresAt, true, rt.CreatedAt))

	got, err := repo.Get(context.Background(), rt.Token)
	require.NoError(t, err)
	require.Equal(t, rt.UserID, got.UserID)
	require.True(t, got.Revoked)
	require.Equal(t, rt.ExpiresAt, got.ExpiresAt)
}

func TestPGRefreshTokenRepo_GetNotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("select .* from refresh_tokens").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, errors.ErrNotFound)
}

func TestPGRefreshTokenRepo_RevokeAndDelete(t *testing.T) {
	repo, mock := newRepo(t)
	ctx := context.Background()

	mock.ExpectExec("update refresh_tokens set revoked=true where token").
		WithArgs("abc").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("update refresh_tokens set revoked=true where token").
		WithArgs("missing").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("delete from refresh_tokens where token").
		WithArgs("abc").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("delete from refresh_tokens where user_id").
		WithArgs("user-1").WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.Revoke(ctx, "abc"))
	require.ErrorIs(t, repo.Revoke(ctx, "missing"), errors.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, "abc"))
	require.NoError(t, repo.DeleteByUserID(ctx, "user-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRefreshTokenRepo_ListByUserID(t *testing.T) {
	repo, mock := newRepo(t)
	rt := newToken()

	mock.ExpectQuery("select .* from refresh_tokens where user_id").
		WithArgs(rt.UserID).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("rt-0", "old", rt.UserID, rt.ExpiresAt, true, rt.CreatedAt).
			AddRow(rt.ID, rt.Token, rt.UserID, rt.ExpiresAt, false, rt.CreatedAt))

	tokens, err := repo.ListByUserID(context.Background(), rt.UserID)
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	require.True(t, tokens[0].Revoked)
	require.False(t, tokens[1].Revoked)
}
