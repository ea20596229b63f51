package users

import "context"

// UserRepo is the credential store. Lookups of unknown users return an error
// wrapping errors.ErrNotFound; Upsert of an email owned by a different user
// returns one wrapping errors.ErrAlreadyExists.
type UserRepo interface {
	Upsert(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, offset, limit int) ([]*User, error)
}
