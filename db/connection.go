// Package db opens and bootstraps the relational backend for the metadata
// store. Postgres is the production backend; SQLite serves local and
// embedded use.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/RubbaBoy/QilletniMetadata/config"
)

// SQLiteBusyTimeoutMS is the busy handler timeout applied to SQLite
// connections.
const SQLiteBusyTimeoutMS = 5000

// Postgres pool settings
const (
	pgMaxOpenConns    = 25
	pgMaxIdleConns    = 5
	pgConnMaxLifetime = 5 * time.Minute
)

// Open opens the configured backend and reports its flavor.
// If logger is provided, logs database operations; otherwise operates silently.
func Open(cfg *config.Config, logger *zap.SugaredLogger) (*sql.DB, Flavor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, 0, fmt.Errorf("invalid database config: %w", err)
	}

	if cfg.Backend == config.BackendSQLite {
		db, err := openSQLite(cfg.SQLitePath, logger)
		return db, FlavorSQLite, err
	}
	db, err := openPostgres(cfg, logger)
	return db, FlavorPostgres, err
}

func openPostgres(cfg *config.Config, logger *zap.SugaredLogger) (*sql.DB, error) {
	if logger != nil {
		logger.Debugw("Opening database",
			"backend", "postgres",
			"host", cfg.DatabaseHost,
			"port", cfg.DatabasePort,
			"database", cfg.Database,
		)
	}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(pgMaxOpenConns)
	db.SetMaxIdleConns(pgMaxIdleConns)
	db.SetConnMaxLifetime(pgConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if logger != nil {
		logger.Infow("Database opened successfully",
			"backend", "postgres",
			"host", cfg.DatabaseHost,
			"database", cfg.Database,
		)
	}

	return db, nil
}

func openSQLite(path string, logger *zap.SugaredLogger) (*sql.DB, error) {
	if logger != nil {
		logger.Debugw("Opening database", "backend", "sqlite", "path", path)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" && path != ":memory:" {
		if err := os.MkdirAll(dir, config.DefaultDirPermissions); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for concurrent reads during writes
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", SQLiteBusyTimeoutMS)); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if logger != nil {
		logger.Infow("Database opened successfully",
			"backend", "sqlite",
			"path", path,
			"wal_mode", true,
			"foreign_keys", true,
		)
	}

	return db, nil
}
