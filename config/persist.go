package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/RubbaBoy/QilletniMetadata/errors"
)

// createBackup creates rotating backups (.back1, .back2, .back3) before modifying config
func createBackup(configPath string) error {
	// Check if file exists before backing up
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil // No file to backup
	}

	// Rotate backups: .back3 -> delete, .back2 -> .back3, .back1 -> .back2, current -> .back1
	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to delete oldest backup")
	}

	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}

	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}

	if err := os.WriteFile(back1, content, 0644); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}

	return nil
}

// Persist writes the configuration to the user config file, creating
// ~/.qilletni if needed and rotating backups of any existing file.
func Persist(c *Config) error {
	configPath := FilePath()
	if configPath == "" {
		return errors.New("could not determine home directory")
	}
	return PersistTo(c, configPath)
}

// PersistTo writes the configuration to an explicit path
func PersistTo(c *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), DefaultDirPermissions); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	if err := createBackup(configPath); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	data, err := toml.Marshal(configFileView(c))
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config")
	}

	return nil
}

// configFileView maps the config to the TOML keys read back by Viper.
// Credentials are written too; the file lives under the user's home with
// restricted directory permissions, matching the env-variable defaults.
func configFileView(c *Config) map[string]interface{} {
	return map[string]interface{}{
		"database_host": c.DatabaseHost,
		"database_port": c.DatabasePort,
		"database":      c.Database,
		"user":          c.User,
		"pass":          c.Pass,
		"backend":       c.Backend,
		"sqlite_path":   c.SQLitePath,
		"sslmode":       c.SSLMode,
	}
}
