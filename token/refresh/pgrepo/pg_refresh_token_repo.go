package pgrefreshrepo

import (
	"context"
	"database/sql"

	"github.com/redsource/redsource-server/internal/errors"
	"github.com/redsource/redsource-server/token/refresh"
)

const tokenColumns = `id, token, user_id, expires_at, revoked, created_at`

var _ refresh.Repo = (*PGRefreshTokenRepo)(nil)

// PGRefreshTokenRepo implements refresh.Repo on PostgreSQL.
type PGRefreshTokenRepo struct {
	db *sql.DB
}

func NewPGRefreshTokenRepo(db *sql.DB) *PGRefreshTokenRepo {
	return &PGRefreshTokenRepo{db: db}
}

// Issue serialises on the owning users row so that concurrent issues and
// rotations for one user cannot both leave an active token behind.
func (r *PGRefreshTokenRepo) Issue(ctx context.Context, rt *refresh.RefreshToken, supersedes string) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrapf(err, "PGRefreshTokenRepo.Issue begin")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var userID string
	err = tx.QueryRowContext(ctx, `select id from users where id=$1 for update`, rt.UserID).Scan(&userID)
	if err == sql.ErrNoRows {
		return errors.Wrapf(errors.ErrPrincipalNotFound, "user %s", rt.UserID)
	}
	if err != nil {
		return errors.Wrapf(err, "PGRefreshTokenRepo.Issue lock user")
	}

	if supersedes != "" {
		var revoked bool
		err = tx.QueryRowContext(ctx,
			`select revoked from refresh_tokens where token=$1 and user_id=$2`, supersedes, rt.UserID).Scan(&revoked)
		if err == sql.ErrNoRows || (err == nil && revoked) {
			return errors.Wrapf(errors.ErrTokenRevoked, "superseded refresh token")
		}
		if err != nil {
			return errors.Wrapf(err, "PGRefreshTokenRepo.Issue superseded")
		}
	}

	if _, err = tx.ExecContext(ctx,
		`update refresh_tokens set revoked=true where user_id=$1 and revoked=false`, rt.UserID); err != nil {
		return errors.Wrapf(err, "PGRefreshTokenRepo.Issue revoke")
	}

	if _, err = tx.ExecContext(ctx,
		`insert into refresh_tokens(`+tokenColumns+`) values($1,$2,$3,$4,$5,$6)`,
		rt.ID, rt.Token, rt.UserID, rt.ExpiresAt, rt.Revoked, rt.CreatedAt); err != nil {
		return errors.Wrapf(err, "PGRefreshTokenRepo.Issue insert")
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrapf(err, "PGRefreshTokenRepo.Issue commit")
	}
	return nil
}

func (r *PGRefreshTokenRepo) Get(ctx context.Context, token string) (*refresh.RefreshToken, error) {
	var rt refresh.RefreshToken
	err := r.db.QueryRowContext(ctx, `select `+tokenColumns+` from refresh_tokens where token=$1`, token).
		Scan(&rt.ID, &rt.Token, &rt.UserID, &rt.ExpiresAt, &rt.Revoked, &rt.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(errors.ErrNotFound, "refresh token")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "PGRefreshTokenRepo.Get")
	}
	return &rt, nil
}

func (r *PGRefreshTokenRepo) Revoke(ctx context.Context, token string) error {
	res, err := r.db.ExecContext(ctx, `update refresh_tokens set revoked=true where token=$1`, token)
	if err != nil {
		return errors.Wrapf(err, "PGRefreshTokenRepo.Revoke")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Wrapf(errors.ErrNotFound, "refresh token")
	}
	return nil
}

func (r *PGRefreshTokenRepo) RevokeAllByUserID(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`update refresh_tokens set revoked=true where user_id=$1 and revoked=false`, userID); err != nil {
		return errors.Wrapf(err, "PGRefreshTokenRepo.RevokeAllByUserID")
	}
	return nil
}

func (r *PGRefreshTokenRepo) Delete(ctx context.Context, token string) error {
	res, err := r.db.ExecContext(ctx, `delete from refresh_tokens where token=$1`, token)
	if err != nil {
		return errors.Wrapf(err, "PGRefreshTokenRepo.Delete")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Wrapf(errors.ErrNotFound, "refresh token")
	}
	return nil
}

func (r *PGRefreshTokenRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `delete from refresh_tokens where user_id=$1`, userID); err != nil {
		return errors.Wrapf(err, "PGRefreshTokenRepo.DeleteByUserID")
	}
	return nil
}

func (r *PGRefreshTokenRepo) ListByUserID(ctx context.Context, userID string) ([]*refresh.RefreshToken, error) {
	rows, err := r.db.QueryContext(ctx,
		`select `+tokenColumns+` from refresh_tokens where user_id=$1 order by created_at, id`, userID)
	if err != nil {
		return nil, errors.Wrapf(err, "PGRefreshTokenRepo.ListByUserID")
	}
	defer rows.Close()

	result := make([]*refresh.RefreshToken, 0)
	for rows.Next() {
		var rt refresh.RefreshToken
		if err := rows.Scan(&rt.ID, &rt.Token, &rt.UserID, &rt.ExpiresAt, &rt.Revoked, &rt.CreatedAt); err != nil {
			return nil, errors.Wrapf(err, "PGRefreshTokenRepo.ListByUserID scan")
		}
		result = append(result, &rt)
	}
	return result, rows.Err()
}
