package commands

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/RubbaBoy/QilletniMetadata/config"
	"github.com/RubbaBoy/QilletniMetadata/db"
	"github.com/RubbaBoy/QilletniMetadata/errors"
	"github.com/RubbaBoy/QilletniMetadata/logger"
)

// DbCmd represents the db command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the backing database",
	Long: `db - Manage the backing database.

The metadata store bootstraps its schema automatically on connect;
these commands run the same steps explicitly for diagnostics.

Examples:
  qlmeta db init                  # Create the schema (idempotent)
  qlmeta db ping                  # Check connectivity`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the metadata schema",
	Long: `Open the configured backend and create the metadata tables. Safe to
run repeatedly; existing tables are left untouched.`,
	RunE: runDbInit,
}

var dbPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check database connectivity",
	RunE:  runDbPing,
}

func init() {
	DbCmd.AddCommand(dbInitCmd)
	DbCmd.AddCommand(dbPingCmd)
}

func runDbInit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	database, flavor, err := db.Open(cfg, logger.Logger)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer database.Close()

	if err := db.Bootstrap(context.Background(), database, logger.Logger); err != nil {
		return errors.Wrap(err, "failed to create schema")
	}

	pterm.Success.Printf("Schema ready on %s backend\n", flavor)
	return nil
}

func runDbPing(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	database, flavor, err := db.Open(cfg, logger.Logger)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer database.Close()

	if err := database.Ping(); err != nil {
		return errors.Wrap(err, "failed to ping database")
	}

	switch flavor {
	case db.FlavorSQLite:
		fmt.Printf("Backend:  sqlite\nPath:     %s\n", cfg.SQLitePath)
	default:
		fmt.Printf("Backend:  postgres\nHost:     %s:%d\nDatabase: %s\n", cfg.DatabaseHost, cfg.DatabasePort, cfg.Database)
	}
	pterm.Success.Println("Database reachable")
	return nil
}
