package commands

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/RubbaBoy/QilletniMetadata/errors"
	"github.com/RubbaBoy/QilletniMetadata/metadata"
)

// FieldCmd represents the field command
var FieldCmd = &cobra.Command{
	Use:   "field",
	Short: "Manage typed custom fields",
	Long: `field - Manage typed custom fields.

Custom fields are named values typed as string, integer, double, or
boolean. Reading with inheritance resolves each field name to the
nearest chain level that has it set.

Examples:
  qlmeta field set song-1 play_count 5 --type integer
  qlmeta field set album-1 live false --kind album --type boolean
  qlmeta field get song-1 play_count
  qlmeta field ls song-1 --album-id album-1 --artist-id artist-1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var fieldGetCmd = &cobra.Command{
	Use:   "get <id> <name>",
	Short: "Show a custom field value",
	Args:  cobra.ExactArgs(2),
	RunE:  runFieldGet,
}

var fieldSetCmd = &cobra.Command{
	Use:   "set <id> <name> <value>",
	Short: "Set a custom field",
	Long: `Set a custom field on the addressed object, replacing any previous
value and type. Without --type the value type is detected: integer,
then double, then boolean, then string.

Examples:
  qlmeta field set song-1 play_count 5          # Detected as integer
  qlmeta field set song-1 note 5 --type string  # Forced to string`,
	Args: cobra.ExactArgs(3),
	RunE: runFieldSet,
}

var fieldLsCmd = &cobra.Command{
	Use:   "ls <id>",
	Short: "List an object's custom fields",
	Long: `List the custom fields visible on the addressed object. Without
--exact each field name resolves to the nearest chain level that
has it set.`,
	Args: cobra.ExactArgs(1),
	RunE: runFieldLs,
}

var fieldTypeFlag string

func init() {
	addObjectFlags(FieldCmd)
	fieldGetCmd.Flags().Bool("exact", false, "Read the object's own field only")
	fieldLsCmd.Flags().Bool("exact", false, "List the object's own fields only")
	fieldSetCmd.Flags().StringVar(&fieldTypeFlag, "type", "", "Force the value type: string, integer, double, boolean")

	FieldCmd.AddCommand(fieldGetCmd)
	FieldCmd.AddCommand(fieldSetCmd)
	FieldCmd.AddCommand(fieldLsCmd)
}

// detectFieldValue picks the narrowest type that parses the value text,
// trying integer, double, and boolean before falling back to string.
func detectFieldValue(text string) metadata.FieldValue {
	if parsed, err := strconv.ParseInt(text, 10, 64); err == nil {
		return metadata.IntValue(parsed)
	}
	if parsed, err := strconv.ParseFloat(text, 64); err == nil {
		return metadata.DoubleValue(parsed)
	}
	if parsed, err := strconv.ParseBool(text); err == nil {
		return metadata.BoolValue(parsed)
	}
	return metadata.StringValue(text)
}

// parseFieldValue parses the CLI value text under the selected type.
func parseFieldValue(fieldType metadata.FieldType, text string) (metadata.FieldValue, error) {
	switch fieldType {
	case metadata.FieldString:
		return metadata.StringValue(text), nil
	case metadata.FieldInteger:
		parsed, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return metadata.FieldValue{}, errors.Wrapf(err, "invalid integer %q", text)
		}
		return metadata.IntValue(parsed), nil
	case metadata.FieldDouble:
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return metadata.FieldValue{}, errors.Wrapf(err, "invalid double %q", text)
		}
		return metadata.DoubleValue(parsed), nil
	case metadata.FieldBoolean:
		parsed, err := strconv.ParseBool(text)
		if err != nil {
			return metadata.FieldValue{}, errors.Wrapf(err, "invalid boolean %q", text)
		}
		return metadata.BoolValue(parsed), nil
	default:
		return metadata.FieldValue{}, errors.Newf("unsupported field type %v", fieldType)
	}
}

func runFieldGet(cmd *cobra.Command, args []string) error {
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

	value, ok, err := store.LookupCustomField(ctx, obj, args[1], inheritFromFlags(cmd))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("No field %q on %s\n", args[1], obj.ID())
		return nil
	}

	fmt.Println(value.Raw())
	return nil
}

func runFieldSet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	obj, err := objectFromFlags(cmd, args[0])
	if err != nil {
		return err
	}

	var value metadata.FieldValue
	if cmd.Flags().Changed("type") {
		fieldType, err := metadata.ParseFieldType(fieldTypeFlag)
		if err != nil {
			return err
		}
		value, err = parseFieldValue(fieldType, args[2])
		if err != nil {
			return err
		}
	} else {
		value = detectFieldValue(args[2])
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SetCustomField(ctx, obj, args[1], value); err != nil {
		return err
	}

	pterm.Success.Printf("Set %s = %s (%s) on %s\n", args[1], value.Raw(), value.Type(), obj.ID())
	return nil
}

func runFieldLs(cmd *cobra.Command, args []string) error {
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

	fields, err := store.LookupAllCustomFields(ctx, obj, inheritFromFlags(cmd))
	if err != nil {
		return err
	}

	if len(fields) == 0 {
		fmt.Printf("No custom fields on %s\n", obj.ID())
		return nil
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := fields[name]
		fmt.Printf("%-24s %-8s %s\n", name, value.Type(), value.Raw())
	}
	return nil
}
