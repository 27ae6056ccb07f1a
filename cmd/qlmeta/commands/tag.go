package commands

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// TagCmd represents the tag command
var TagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage object tags",
	Long: `tag - Manage object tags.

Tags are short labels attached to songs, albums, and artists. Reading
with inheritance unions the tags of every level of the chain; the union
is not deduplicated, so a tag carried by two levels appears twice.

Examples:
  qlmeta tag add song-1 goated --artist-id artist-1
  qlmeta tag ls song-1 --album-id album-1 --artist-id artist-1
  qlmeta tag ls song-1 --exact             # Song's own tags only
  qlmeta tag rm song-1 shared --artist-id artist-1
  qlmeta tag set song-1 rock metalcore     # Replace all of the song's tags`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var tagAddCmd = &cobra.Command{
	Use:   "add <id> <tag>...",
	Short: "Add tags to an object",
	Long: `Add one or more tags to the addressed object. Adding a tag the
object already has is a no-op.

Examples:
  qlmeta tag add song-1 goated --artist-id artist-1
  qlmeta tag add album-1 live remaster --kind album`,
	Args: cobra.MinimumNArgs(2),
	RunE: runTagAdd,
}

var tagRmCmd = &cobra.Command{
	Use:   "rm <id> <tag>",
	Short: "Remove a tag from an object",
	Long: `Remove a tag from the addressed object. Without --exact the tag is
also removed from every ancestor in the chain that carries it.

Examples:
  qlmeta tag rm song-1 shared --album-id album-1 --artist-id artist-1
  qlmeta tag rm song-1 shared --exact      # Only the song's own tag`,
	Args: cobra.ExactArgs(2),
	RunE: runTagRm,
}

var tagLsCmd = &cobra.Command{
	Use:   "ls <id>",
	Short: "List an object's tags",
	Long: `List the tags visible on the addressed object. Without --exact the
listing includes tags inherited from the chain.

Example:
  qlmeta tag ls song-1 --album-id album-1 --artist-id artist-1`,
	Args: cobra.ExactArgs(1),
	RunE: runTagLs,
}

var tagSetCmd = &cobra.Command{
	Use:   "set <id> [tags...]",
	Short: "Replace an object's tags",
	Long: `Atomically replace the addressed object's own tags with the given
set. With no tags the object's tags are cleared. Ancestor tags are
never touched.

Examples:
  qlmeta tag set song-1 rock metalcore
  qlmeta tag set song-1                    # Clear all tags`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTagSet,
}

func init() {
	addObjectFlags(TagCmd)
	tagRmCmd.Flags().Bool("exact", false, "Remove from the addressed object only")
	tagLsCmd.Flags().Bool("exact", false, "List the object's own tags only")

	TagCmd.AddCommand(tagAddCmd)
	TagCmd.AddCommand(tagRmCmd)
	TagCmd.AddCommand(tagLsCmd)
	TagCmd.AddCommand(tagSetCmd)
}

func runTagAdd(cmd *cobra.Command, args []string) error {
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

	for _, tag := range args[1:] {
		if err := store.AddTag(ctx, obj, tag); err != nil {
			return err
		}
	}

	if len(args) == 2 {
		pterm.Success.Printf("Tagged %s with %q\n", obj.ID(), args[1])
	} else {
		pterm.Success.Printf("Tagged %s with %d tags\n", obj.ID(), len(args)-1)
	}
	return nil
}

func runTagRm(cmd *cobra.Command, args []string) error {
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

	inherit := inheritFromFlags(cmd)
	if err := store.RemoveTag(ctx, obj, args[1], inherit); err != nil {
		return err
	}

	if inherit {
		pterm.Success.Printf("Removed %q from %s and its chain\n", args[1], obj.ID())
	} else {
		pterm.Success.Printf("Removed %q from %s\n", args[1], obj.ID())
	}
	return nil
}

func runTagLs(cmd *cobra.Command, args []string) error {
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

	tags, err := store.LookupTags(ctx, obj, inheritFromFlags(cmd))
	if err != nil {
		return err
	}

	if len(tags) == 0 {
		fmt.Printf("No tags on %s\n", obj.ID())
		return nil
	}

	for _, tag := range tags {
		fmt.Println(tag)
	}
	return nil
}

func runTagSet(cmd *cobra.Command, args []string) error {
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

	tags := args[1:]
	if err := store.SetTags(ctx, obj, tags); err != nil {
		return err
	}

	if len(tags) == 0 {
		pterm.Success.Printf("Cleared tags on %s\n", obj.ID())
	} else {
		pterm.Success.Printf("Set %d tags on %s\n", len(tags), obj.ID())
	}
	return nil
}
