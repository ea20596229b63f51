package refresh

import (
	"context"
	"time"
)

// RefreshToken is the server-side record behind an opaque refresh token. The
// client only ever sees Token.
type RefreshToken struct {
	ID        string    // Row identifier
	Token     string    // The random token string sent to the client
	UserID    string    // Owning principal
	ExpiresAt time.Time // Absolute expiry
	Revoked   bool      // Set on logout or when superseded
	CreatedAt time.Time // Issue time
}

// IsExpired reports whether the token's expiry is before now.
func (rt *RefreshToken) IsExpired(now time.Time) bool {
	return rt.ExpiresAt.Before(now)
}

// Repo stores refresh tokens. Unknown tokens are reported with an error
// wrapping errors.ErrNotFound.
type Repo interface {
	// Issue revokes every unrevoked token of rt.UserID and stores rt as one
	// atomic unit. If supersedes is not empty that token must still be
	// unrevoked and owned by the same user, otherwise nothing changes and an
	// error wrapping errors.ErrTokenRevoked is returned.
	Issue(ctx context.Context, rt *RefreshToken, supersedes string) error
	Get(ctx context.Context, token string) (*RefreshToken, error)
	// Revoke marks a token revoked. Revoking a revoked token succeeds.
	Revoke(ctx context.Context, token string) error
	RevokeAllByUserID(ctx context.Context, userID string) error
	Delete(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID string) error
	ListByUserID(ctx context.Context, userID string) ([]*RefreshToken, error)
}
