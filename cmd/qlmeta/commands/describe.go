package commands

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// DescribeCmd represents the describe command
var DescribeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Manage object descriptions",
	Long: `describe - Manage free-text descriptions.

Each object carries at most one description. Reading with inheritance
returns the description of the nearest chain level that has one.

Examples:
  qlmeta describe set album-1 "Debut studio album" --kind album
  qlmeta describe get song-1 --album-id album-1 --artist-id artist-1
  qlmeta describe get song-1 --exact`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var describeGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show an object's description",
	Args:  cobra.ExactArgs(1),
	RunE:  runDescribeGet,
}

var describeSetCmd = &cobra.Command{
	Use:   "set <id> <description>",
	Short: "Set an object's description",
	Long: `Set the description of the addressed object, replacing any previous
one. Ancestors are never written.`,
	Args: cobra.ExactArgs(2),
	RunE: runDescribeSet,
}

func init() {
	addObjectFlags(DescribeCmd)
	describeGetCmd.Flags().Bool("exact", false, "Read the object's own description only")

	DescribeCmd.AddCommand(describeGetCmd)
	DescribeCmd.AddCommand(describeSetCmd)
}

func runDescribeGet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	obj, err := objectFromFlags(cmd, args[0])
	if err != nil {
		return err
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	description, ok, err := store.LookupDescription(ctx, obj, inheritFromFlags(cmd))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("No description for %s\n", obj.ID())
		return nil
	}

	fmt.Println(description)
	return nil
}

func runDescribeSet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	obj, err := objectFromFlags(cmd, args[0])
	if err != nil {
		return err
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SetDescription(ctx, obj, args[1]); err != nil {
		return err
	}

	pterm.Success.Printf("Described %s\n", obj.ID())
	return nil
}
