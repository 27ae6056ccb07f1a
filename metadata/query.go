package metadata

import (
	"fmt"
	"strings"

	"github.com/RubbaBoy/QilletniMetadata/db"
)

// The statement text varies with the length of the id chain (1 up to the
// hierarchy depth), so the placeholder fragments are built per call. Only
// placeholder syntax is ever formatted into SQL; values always flow through
// bound parameters.

// inListPlaceholders renders n comma-joined positional placeholders for an
// IN clause, numbered from start when the flavor is positional. start
// accounts for parameters already bound ahead of the list.
func inListPlaceholders(flavor db.Flavor, start, n int) string {
	placeholders := make([]string, n)
	for i := range placeholders {
		placeholders[i] = flavor.Placeholder(start + i)
	}
	return strings.Join(placeholders, ", ")
}

// priorityExpr builds a first-match-wins COALESCE over one sub-lookup per
// chain id, in chain order. template receives the id placeholder through a
// single %s verb. A one-id chain stays a bare sub-lookup; SQLite refuses to
// prepare COALESCE with fewer than two arguments.
func priorityExpr(flavor db.Flavor, template string, n int) string {
	lookups := make([]string, n)
	for i := range lookups {
		lookups[i] = fmt.Sprintf(template, flavor.Placeholder(i+1))
	}
	if n == 1 {
		return lookups[0]
	}
	return "COALESCE(" + strings.Join(lookups, ", ") + ")"
}

// idArgs widens the id chain for parameter binding
func idArgs(ids []string) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
