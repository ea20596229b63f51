package config

import (
	"os"
	"strings"
)

const (
	portEnvVar     = "PORT"
	appNameVar     = "APP_NAME"
	envVar         = "ENV"
	logLevelVar    = "LOG_LEVEL"
	databaseURLVar = "DATABASE_URL"
	adminEmailVar  = "ADMIN_EMAIL"
	adminPassVar   = "ADMIN_PASSWORD"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "RedSource")
}

func (EnvVars) GetEnv() string {
	return GetEnv(envVar, "DEV")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, "info")
}

// GetDatabaseURL returns the Postgres DSN. An empty value selects the in-memory repositories.
func (EnvVars) GetDatabaseURL() string {
	return GetEnv(databaseURLVar, "")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetAdminEmail names the ADMIN account seeded at startup. Empty disables seeding.
func (EnvVars) GetAdminEmail() string {
	return GetEnv(adminEmailVar, "")
}

// GetAdminPassword is the seeded admin's password. Empty means one is generated.
func (EnvVars) GetAdminPassword() string {
	return GetEnv(adminPassVar, "")
}
