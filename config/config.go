// Package config loads the metadata store configuration from environment
// variables and an optional TOML file. Environment variables always win.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Backend names accepted in the "backend" key.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config represents the metadata store configuration
type Config struct {
	DatabaseHost string `mapstructure:"database_host"`
	DatabasePort int    `mapstructure:"database_port"`
	Database     string `mapstructure:"database"`
	User         string `mapstructure:"user"`
	Pass         string `mapstructure:"pass"`

	// Backend selects the storage driver: postgres (default) or sqlite.
	Backend    string `mapstructure:"backend"`
	SQLitePath string `mapstructure:"sqlite_path"`
	SSLMode    string `mapstructure:"sslmode"`
}

var globalConfig *Config
var viperInstance *viper.Viper

// Load reads the configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	globalConfig = &config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	// Set defaults but don't bind environment variables for this specific load
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config from %s: %w", configPath, err)
	}

	return &config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	// Set up environment variable binding
	v.SetEnvPrefix("ql_metadata")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind credentials explicitly so they never need to appear in a file
	BindSensitiveEnvVars(v)

	// Set defaults first
	SetDefaults(v)

	// Merge the user config file below the env layer; env vars still win
	if path := FilePath(); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if _, err := os.Stat(path); err == nil {
			_ = v.MergeInConfig()
		}
	}

	viperInstance = v
	return v
}

// Dir returns the directory holding the user config and local database,
// ~/.qilletni. Empty when the home directory cannot be determined.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".qilletni")
}

// FilePath returns the path of the user config file, ~/.qilletni/metadata.toml
func FilePath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "metadata.toml")
}

// DSN renders the Postgres connection string for lib/pq
func (c *Config) DSN() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DatabaseHost, c.DatabasePort, c.Database, c.User, c.Pass, sslmode)
}
