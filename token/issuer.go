package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redsource/redsource-server/internal/errors"
	"github.com/redsource/redsource-server/users"
)

// Issuer mints access tokens. Nothing is persisted; each call is independent.
type Issuer struct {
	codec   *Codec
	issuer  string
	expiry  time.Duration
	nowFunc func() time.Time
}

type IssuerOption func(*Issuer)

func WithIssuerNowFunc(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowFunc = now
	}
}

func NewIssuer(codec *Codec, issuer string, expiry time.Duration, options ...IssuerOption) *Issuer {
	i := &Issuer{
		codec:   codec,
		issuer:  issuer,
		expiry:  expiry,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(i)
	}
	return i
}

// Expiry is the configured access token lifetime.
func (i *Issuer) Expiry() time.Duration {
	return i.expiry
}

// IssueAccessToken returns a signed token for user and its expiry time. The
// subject is the user's email and the scope lists the role's authorities.
func (i *Issuer) IssueAccessToken(user *users.User) (string, time.Time, error) {
	if user == nil || user.Email == "" {
		return "", time.Time{}, errors.Wrapf(errors.ErrInvalidRequest, "IssueAccessToken: user email required")
	}

	now := i.nowFunc()
	expiresAt := now.Add(i.expiry)
	claims := &Claims{
		Scope:     strings.Join(user.Authorities(), " "),
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
	}

	signed, err := i.codec.Encode(claims)
	if err != nil {
		return "", time.Time{}, errors.Wrapf(err, "IssueAccessToken")
	}
	return signed, claims.ExpiresAt.Time, nil
}
