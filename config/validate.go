package config

import "github.com/RubbaBoy/QilletniMetadata/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendPostgres, BackendSQLite:
	default:
		return errors.Newf("backend must be %q or %q, got %q", BackendPostgres, BackendSQLite, c.Backend)
	}

	if c.Backend == BackendPostgres {
		if c.DatabaseHost == "" {
			return errors.New("database_host cannot be empty")
		}
		if c.DatabasePort <= 0 || c.DatabasePort > 65535 {
			return errors.Newf("database_port must be in 1..65535, got %d", c.DatabasePort)
		}
		if c.Database == "" {
			return errors.New("database cannot be empty")
		}
	}

	if c.Backend == BackendSQLite && c.SQLitePath == "" {
		return errors.New("sqlite_path cannot be empty")
	}

	return nil
}
