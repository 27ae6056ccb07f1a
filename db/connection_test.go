package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/RubbaBoy/QilletniMetadata/config"
)

func sqliteConfig(path string) *config.Config {
	return &config.Config{
		Backend:    config.BackendSQLite,
		SQLitePath: path,
	}
}

func TestOpen(t *testing.T) {
	t.Run("opens sqlite database successfully", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "test.db")

		db, flavor, err := Open(sqliteConfig(dbPath), nil)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		assert.Equal(t, FlavorSQLite, flavor)

		// Verify WAL mode enabled
		var journalMode string
		err = db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
		require.NoError(t, err)
		assert.Equal(t, "wal", journalMode)

		// Verify foreign keys enabled
		var foreignKeys int
		err = db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys)
		require.NoError(t, err)
		assert.Equal(t, 1, foreignKeys)

		// Verify busy timeout set
		var busyTimeout int
		err = db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout)
		require.NoError(t, err)
		assert.Equal(t, SQLiteBusyTimeoutMS, busyTimeout)
	})

	t.Run("creates sqlite database file if it doesn't exist", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "nested", "new.db")

		_, err := os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))

		db, _, err := Open(sqliteConfig(dbPath), nil)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		_, err = os.Stat(dbPath)
		assert.NoError(t, err)
	})

	t.Run("rejects invalid backend", func(t *testing.T) {
		db, _, err := Open(&config.Config{Backend: "mysql"}, nil)
		require.Error(t, err)
		assert.Nil(t, db)
		assert.Contains(t, err.Error(), "invalid database config")
	})

	t.Run("returns error for unreachable postgres", func(t *testing.T) {
		cfg := &config.Config{
			Backend:      config.BackendPostgres,
			DatabaseHost: "127.0.0.1",
			DatabasePort: 1,
			Database:     "metadata",
			User:         "admin",
			Pass:         "pass",
		}

		db, flavor, err := Open(cfg, nil)
		require.Error(t, err)
		assert.Nil(t, db)
		assert.Equal(t, FlavorPostgres, flavor)
	})
}

func TestOpen_WithLogger(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	logger := zaptest.NewLogger(t).Sugar()
	db, _, err := Open(sqliteConfig(dbPath), logger)
	require.NoError(t, err)
	require.NotNil(t, db)
	defer db.Close()
}
