package config

import "fmt"

type Config interface {
	EnvConfig
	CorsConfig
	JWTConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetDatabaseURL() string
	GetAdminEmail() string
	GetAdminPassword() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	JWT
	Security
}

// Load reads the process configuration from the environment. Missing or
// invalid token settings are returned as an error and must stop startup.
func Load() (Config, error) {
	jwtConfig, err := LoadJWT()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	security, err := LoadSecurity()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return mainConfig{
		Cors:     LoadCors(),
		JWT:      jwtConfig,
		Security: security,
	}, nil
}
