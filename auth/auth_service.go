package auth

import (
	"context"

	"github.com/redsource/redsource-server/internal/errors"
	"github.com/redsource/redsource-server/token"
	"github.com/redsource/redsource-server/token/refresh"
	"github.com/redsource/redsource-server/users"
	"github.com/rs/zerolog/log"
)

// Service registers accounts and exchanges credentials or refresh tokens for
// token pairs.
type Service struct {
	users   users.UserRepo   // Credential store
	issuer  *token.Issuer    // Access token minting
	refresh *refresh.Manager // Refresh token lifecycle
}

// NewService initializes a Service. Every dependency is required.
func NewService(userRepo users.UserRepo, issuer *token.Issuer, refreshManager *refresh.Manager) (*Service, error) {
	if userRepo == nil {
		return nil, errors.New("[NewService] users repo is required")
	}
	if issuer == nil {
		return nil, errors.New("[NewService] token issuer is required")
	}
	if refreshManager == nil {
		return nil, errors.New("[NewService] refresh manager is required")
	}
	return &Service{
		users:   userRepo,
		issuer:  issuer,
		refresh: refreshManager,
	}, nil
}

// Register validates and stores a new account. No tokens are issued; the
// caller logs in afterwards.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*users.User, error) {
	if err := users.ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	role, err := parseRole(req.Role)
	if err != nil {
		return nil, err
	}
	dob, err := parseDate("date of birth", req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	user := &users.User{
		Email:              users.NormalizeEmail(req.Email),
		Name:               req.Name,
		Role:               role,
		BloodTypeID:        req.BloodTypeID,
		DateOfBirth:        dob,
		ContactInformation: req.ContactInformation,
		ProfilePicture:     req.ProfilePicture,
	}
	if err := users.ValidateProfile(user); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, user.Email); err == nil {
		return nil, errors.Wrapf(errors.ErrAlreadyExists, "email %s", user.Email)
	} else if !errors.Is(err, errors.ErrNotFound) {
		return nil, errors.Wrapf(err, "[Register] lookup")
	}

	if user.PasswordHash, err = users.HashPassword(req.Password); err != nil {
		return nil, errors.Wrapf(err, "[Register] hash password")
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("account registered")
	return user, nil
}

// Login checks the credentials and issues a token pair. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, users.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.ErrInvalidCredentials
		}
		return nil, errors.Wrapf(err, "[Login] lookup")
	}
	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return nil, errors.ErrInvalidCredentials
	}
	return s.issuePair(ctx, user)
}

// Refresh rotates the refresh token and issues a new access token for its
// owner. Every failure is reported as errors.ErrInvalidRefreshToken. The
// owner is loaded and the access token minted before rotation commits, so a
// failed refresh never consumes the presented token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	if refreshToken == "" {
		return nil, errors.ErrInvalidRefreshToken
	}

	current, err := s.refresh.Verify(ctx, refreshToken)
	if err != nil {
		return nil, invalidRefresh(err)
	}
	user, err := s.users.GetByID(ctx, current.UserID)
	if err != nil {
		return nil, invalidRefresh(err)
	}
	accessToken, _, err := s.issuer.IssueAccessToken(user)
	if err != nil {
		return nil, invalidRefresh(err)
	}

	next, err := s.refresh.Rotate(ctx, refreshToken)
	if err != nil {
		return nil, invalidRefresh(err)
	}
	return s.tokenResponse(accessToken, next.Token), nil
}

// Logout revokes the refresh token. Access tokens already issued stay valid
// until they expire.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return errors.ErrInvalidRefreshToken
	}
	if err := s.refresh.Revoke(ctx, refreshToken); err != nil {
		return invalidRefresh(err)
	}
	return nil
}

func (s *Service) issuePair(ctx context.Context, user *users.User) (*TokenResponse, error) {
	accessToken, _, err := s.issuer.IssueAccessToken(user)
	if err != nil {
		return nil, errors.Wrapf(err, "[issuePair] access token")
	}
	rt, err := s.refresh.Issue(ctx, user.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "[issuePair] refresh token")
	}
	return s.tokenResponse(accessToken, rt.Token), nil
}

func (s *Service) tokenResponse(accessToken, refreshToken string) *TokenResponse {
	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    TokenTypeBearer,
		ExpiresIn:    int64(s.issuer.Expiry().Seconds()),
	}
}

func invalidRefresh(err error) error {
	log.Debug().Err(err).Msg("refresh token rejected")
	return errors.ErrInvalidRefreshToken
}
