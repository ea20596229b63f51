package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/redsource/redsource-server/auth"
	"github.com/redsource/redsource-server/internal/config"
	"github.com/redsource/redsource-server/token"
	"github.com/redsource/redsource-server/token/refresh"
	refreshrepofake "github.com/redsource/redsource-server/token/refresh/repofake"
	"github.com/redsource/redsource-server/users"
	fakeuserrepo "github.com/redsource/redsource-server/users/repofake"
	"github.com/stretchr/testify/require"
)

const (
	secretStr    = "0123456789abcdef0123456789abcdef"
	issuer       = "com.redsource.test"
	testEmail    = "alice@example.com"
	testPassword = "s3cret!"
)

type testFixture struct {
	now           time.Time
	userRepo      users.UserRepo
	refreshRepo   refresh.Repo
	codec         *token.Codec
	issuer        *token.Issuer
	refresh       *refresh.Manager
	service       *auth.Service
	accounts      *auth.AccountService
	authenticator *auth.Authenticator
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		now:         time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		userRepo:    fakeuserrepo.NewFakeUserRepo(),
		refreshRepo: refreshrepofake.NewFakeRefreshTokenRepo(),
	}
	clock := func() time.Time { return f.now }
	cfg := config.JWT{
		Secret:        []byte(secretStr),
		Issuer:        issuer,
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
	}

	f.codec = token.NewCodec(token.NewHMACSigner(cfg.Secret), cfg.Issuer, token.WithCodecNowFunc(clock))
	f.issuer = token.NewIssuer(f.codec, cfg.Issuer, cfg.AccessExpiry, token.WithIssuerNowFunc(clock))
	f.refresh = refresh.NewManager(f.refreshRepo, f.userRepo, cfg, refresh.WithNowFunc(clock))

	var err error
	f.service, err = auth.NewService(f.userRepo, f.issuer, f.refresh)
	require.NoError(t, err)
	f.accounts = auth.NewAccountService(f.userRepo, f.refresh)
	f.authenticator = auth.NewAuthenticator(f.codec, f.userRepo)
	return f
}

func registerRequest(email string, role users.RoleType) auth.RegisterRequest {
	return auth.RegisterRequest{
		Name:               "Alice",
		Email:              email,
		Password:           testPassword,
		ContactInformation: "+44 7000 000000",
		DateOfBirth:        "1990-01-02",
		Role:               role,
	}
}

func (f *testFixture) register(t *testing.T, email string, role users.RoleType) *users.User {
	t.Helper()
	u, err := f.service.Register(context.Background(), registerRequest(email, role))
	require.NoError(t, err)
	return u
}
