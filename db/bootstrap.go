package db

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/RubbaBoy/QilletniMetadata/errors"
)

// Schema statements for the four attribute tables. Every statement is
// idempotent; Bootstrap can run on every startup.
const (
	createTagsTable = `
		CREATE TABLE IF NOT EXISTS tags (
			id   TEXT NOT NULL,
			tag  TEXT NOT NULL,
			PRIMARY KEY (id, tag)
		)`

	createDescriptionsTable = `
		CREATE TABLE IF NOT EXISTS descriptions (
			id          TEXT PRIMARY KEY,
			description TEXT NOT NULL
		)`

	createRatesTable = `
		CREATE TABLE IF NOT EXISTS rates (
			id   TEXT PRIMARY KEY,
			rate DOUBLE PRECISION NOT NULL
		)`

	createCustomFieldsTable = `
		CREATE TABLE IF NOT EXISTS custom_fields (
			id         TEXT NOT NULL,
			field_name TEXT NOT NULL,
			type       INTEGER NOT NULL,
			value      TEXT NOT NULL,
			PRIMARY KEY (id, field_name)
		)`
)

var schemaStatements = []struct {
	table string
	ddl   string
}{
	{"tags", createTagsTable},
	{"descriptions", createDescriptionsTable},
	{"rates", createRatesTable},
	{"custom_fields", createCustomFieldsTable},
}

// Bootstrap creates the attribute tables if they do not exist.
// If logger is provided, logs progress; otherwise operates silently.
func Bootstrap(ctx context.Context, db *sql.DB, logger *zap.SugaredLogger) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt.ddl); err != nil {
			return errors.Wrapf(err, "create table %s", stmt.table)
		}
		if logger != nil {
			logger.Debugw("Ensured table exists", "table", stmt.table)
		}
	}

	if logger != nil {
		logger.Infow("Schema bootstrap complete", "tables", len(schemaStatements))
	}
	return nil
}
