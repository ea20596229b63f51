package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	jwtSecretVar     = "JWT_SECRET"
	jwtIssuerVar     = "JWT_ISSUER"
	jwtAccessTTLVar  = "JWT_ACCESS_TTL"
	jwtRefreshTTLVar = "JWT_REFRESH_TTL"

	minSecretLength = 32
)

var ErrMissingSetting = errors.New("missing required setting")

type JWTConfig interface {
	GetSigningSecret() []byte
	GetIssuer() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetRefreshTokenLength() int
}

// JWT holds the token settings. All four values are required at startup.
type JWT struct {
	Secret        []byte
	Issuer        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

var _ JWTConfig = JWT{}

// LoadJWT reads and validates the token settings from the environment.
func LoadJWT() (JWT, error) {
	cfg := JWT{
		Secret: []byte(os.Getenv(jwtSecretVar)),
		Issuer: os.Getenv(jwtIssuerVar),
	}

	var err error
	if cfg.AccessExpiry, err = requiredDuration(jwtAccessTTLVar); err != nil {
		return JWT{}, err
	}
	if cfg.RefreshExpiry, err = requiredDuration(jwtRefreshTTLVar); err != nil {
		return JWT{}, err
	}
	if err := cfg.Validate(); err != nil {
		return JWT{}, err
	}
	return cfg, nil
}

func (j JWT) Validate() error {
	if len(j.Secret) == 0 {
		return fmt.Errorf("%s: %w", jwtSecretVar, ErrMissingSetting)
	}
	if len(j.Secret) < minSecretLength {
		return fmt.Errorf("%s must be at least %d bytes", jwtSecretVar, minSecretLength)
	}
	if j.Issuer == "" {
		return fmt.Errorf("%s: %w", jwtIssuerVar, ErrMissingSetting)
	}
	if j.AccessExpiry <= 0 {
		return fmt.Errorf("%s must be positive", jwtAccessTTLVar)
	}
	if j.RefreshExpiry <= 0 {
		return fmt.Errorf("%s must be positive", jwtRefreshTTLVar)
	}
	return nil
}

func (j JWT) GetSigningSecret() []byte {
	return j.Secret
}

func (j JWT) GetIssuer() string {
	return j.Issuer
}

func (j JWT) GetAccessTokenExpiry() time.Duration {
	return j.AccessExpiry
}

func (j JWT) GetRefreshTokenExpiry() time.Duration {
	return j.RefreshExpiry
}

func (JWT) GetRefreshTokenLength() int {
	return 32 // 32 bytes = 256 bits
}

func requiredDuration(envVar string) (time.Duration, error) {
	raw := os.Getenv(envVar)
	if raw == "" {
		return 0, fmt.Errorf("%s: %w", envVar, ErrMissingSetting)
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", envVar, err)
	}
	return d, nil
}
