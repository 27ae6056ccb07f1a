package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/RubbaBoy/QilletniMetadata/errors"
)

// RateCmd represents the rate command
var RateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Manage object ratings",
	Long: `rate - Manage numeric ratings.

Each object carries at most one rating. Reading with inheritance
returns the rating of the nearest chain level that has one.

Examples:
  qlmeta rate set artist-1 4.5 --kind artist
  qlmeta rate get song-1 --artist-id artist-1
  qlmeta rate get song-1 --exact`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var rateGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show an object's rating",
	Args:  cobra.ExactArgs(1),
	RunE:  runRateGet,
}

var rateSetCmd = &cobra.Command{
	Use:   "set <id> <rating>",
	Short: "Set an object's rating",
	Long: `Set the rating of the addressed object, replacing any previous one.
Ancestors are never written.`,
	Args: cobra.ExactArgs(2),
	RunE: runRateSet,
}

func init() {
	addObjectFlags(RateCmd)
	rateGetCmd.Flags().Bool("exact", false, "Read the object's own rating only")

	RateCmd.AddCommand(rateGetCmd)
	RateCmd.AddCommand(rateSetCmd)
}

func runRateGet(cmd *cobra.Command, args []string) error {
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

	rating, ok, err := store.LookupRating(ctx, obj, inheritFromFlags(cmd))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("No rating for %s\n", obj.ID())
		return nil
	}

	fmt.Println(strconv.FormatFloat(rating, 'g', -1, 64))
	return nil
}

func runRateSet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	obj, err := objectFromFlags(cmd, args[0])
	if err != nil {
		return err
	}

	rating, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return errors.Wrapf(err, "invalid rating %q", args[1])
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SetRating(ctx, obj, rating); err != nil {
		return err
	}

	pterm.Success.Printf("Rated %s at %s\n", obj.ID(), args[1])
	return nil
}
