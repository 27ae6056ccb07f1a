package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultDirPermissions is the mode used when creating ~/.qilletni
const DefaultDirPermissions = 0750

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Connection defaults
	v.SetDefault("database_host", "localhost")
	v.SetDefault("database_port", 5432)
	v.SetDefault("database", "metadata")
	v.SetDefault("user", "admin")
	v.SetDefault("pass", "pass")

	// Backend defaults
	v.SetDefault("backend", BackendPostgres)
	v.SetDefault("sqlite_path", defaultSQLitePath())
	v.SetDefault("sslmode", "disable")
}

// BindSensitiveEnvVars explicitly binds credentials to environment variables
func BindSensitiveEnvVars(v *viper.Viper) {
	v.BindEnv("user", "QL_METADATA_USER")
	v.BindEnv("pass", "QL_METADATA_PASS")
}

// defaultSQLitePath places the local database next to the user config,
// falling back to the working directory when home is unavailable.
func defaultSQLitePath() string {
	dir := Dir()
	if dir == "" {
		return "metadata.db"
	}
	return filepath.Join(dir, "metadata.db")
}
