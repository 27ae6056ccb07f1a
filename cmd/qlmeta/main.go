package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RubbaBoy/QilletniMetadata/cmd/qlmeta/commands"
	"github.com/RubbaBoy/QilletniMetadata/logger"
)

var rootCmd = &cobra.Command{
	Use:   "qlmeta",
	Short: "Qilletni hierarchical music metadata store",
	Long: `qlmeta - Hierarchical music metadata store.

Attach tags, free-text descriptions, numeric ratings, and typed custom
fields to songs, albums, and artists. Reads resolve through the
song -> album -> artist inheritance chain; writes always land on the
addressed object itself.

Available commands:
  tag      - Manage tags (add, rm, ls, set)
  describe - Manage descriptions
  rate     - Manage ratings
  field    - Manage typed custom fields
  db       - Manage the backing database
  config   - Manage configuration

Examples:
  qlmeta tag add song-1 goated --artist-id artist-1
  qlmeta tag ls song-1 --album-id album-1 --artist-id artist-1
  qlmeta describe set album-1 "Debut studio album" --kind album
  qlmeta rate get song-1 --artist-id artist-1
  qlmeta field set song-1 play_count 5 --type integer
  qlmeta db init`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize global logger before any command runs
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(verbosity, jsonLogs); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON instead of console output")

	// Add commands
	rootCmd.AddCommand(commands.TagCmd)
	rootCmd.AddCommand(commands.DescribeCmd)
	rootCmd.AddCommand(commands.RateCmd)
	rootCmd.AddCommand(commands.FieldCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
