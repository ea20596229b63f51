package pguserrepo

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redsource/redsource-server/internal/errors"
	"github.com/redsource/redsource-server/users"
)

const uniqueViolation = "23505"

const userColumns = `id, email, name, password_hash, role, blood_type_id, date_of_birth,
	contact_information, profile_picture, created_at, updated_at`

var _ users.UserRepo = (*PGUserRepo)(nil)

// PGUserRepo implements users.UserRepo on PostgreSQL.
type PGUserRepo struct {
	db *sql.DB
}

func NewPGUserRepo(db *sql.DB) *PGUserRepo {
	return &PGUserRepo{db: db}
}

func (r *PGUserRepo) Upsert(ctx context.Context, u *users.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	var bloodType sql.NullInt64
	if u.BloodTypeID != nil {
		bloodType = sql.NullInt64{Int64: int64(*u.BloodTypeID), Valid: true}
	}
	dob := sql.NullTime{Time: u.DateOfBirth, Valid: !u.DateOfBirth.IsZero()}

	_, err := r.db.ExecContext(ctx,
		`insert into users(`+userColumns+`)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 on conflict (id) do update set
		   email=excluded.email, name=excluded.name, password_hash=excluded.password_hash,
		   role=excluded.role, blood_type_id=excluded.blood_type_id, date_of_birth=excluded.date_of_birth,
		   contact_information=excluded.contact_information, profile_picture=excluded.profile_picture,
		   updated_at=excluded.updated_at`,
		u.ID, u.Email, u.Name, u.PasswordHash, string(u.Role), bloodType, dob,
		u.ContactInformation, u.ProfilePicture, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return errors.Wrapf(errors.ErrAlreadyExists, "email %s", u.Email)
		}
		return errors.Wrapf(err, "PGUserRepo.Upsert")
	}
	return nil
}

func (r *PGUserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `delete from users where id=$1`, id)
	if err != nil {
		return errors.Wrapf(err, "PGUserRepo.Delete")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Wrapf(errors.ErrNotFound, "user %s", id)
	}
	return nil
}

func (r *PGUserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	row := r.db.QueryRowContext(ctx, `select `+userColumns+` from users where email=$1`, email)
	return scanUser(row, email)
}

func (r *PGUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	row := r.db.QueryRowContext(ctx, `select `+userColumns+` from users where id=$1`, id)
	return scanUser(row, id)
}

func (r *PGUserRepo) List(ctx context.Context, offset, limit int) ([]*users.User, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`select `+userColumns+` from users order by created_at, id offset $1 limit $2`, offset, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "PGUserRepo.List")
	}
	defer rows.Close()

	result := make([]*users.User, 0)
	for rows.Next() {
		u, err := scanUser(rows, "")
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner, key string) (*users.User, error) {
	var (
		u         users.User
		role      string
		bloodType sql.NullInt64
		dob       sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &role, &bloodType, &dob,
		&u.ContactInformation, &u.ProfilePicture, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.Wrapf(errors.ErrNotFound, "user %s", key)
		}
		return nil, errors.Wrapf(err, "PGUserRepo scan")
	}
	u.Role = users.RoleType(role)
	if bloodType.Valid {
		id := int(bloodType.Int64)
		u.BloodTypeID = &id
	}
	if dob.Valid {
		u.DateOfBirth = dob.Time
	}
	return &u, nil
}
