package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RubbaBoy/QilletniMetadata/db"
)

func TestInListPlaceholders(t *testing.T) {
	testCases := []struct {
		name     string
		flavor   db.Flavor
		start    int
		n        int
		expected string
	}{
		{
			name:     "postgres single id",
			flavor:   db.FlavorPostgres,
			start:    1,
			n:        1,
			expected: "$1",
		},
		{
			name:     "postgres full chain",
			flavor:   db.FlavorPostgres,
			start:    1,
			n:        3,
			expected: "$1, $2, $3",
		},
		{
			name:     "postgres offset for leading parameter",
			flavor:   db.FlavorPostgres,
			start:    2,
			n:        3,
			expected: "$2, $3, $4",
		},
		{
			name:     "sqlite full chain",
			flavor:   db.FlavorSQLite,
			start:    1,
			n:        3,
			expected: "?, ?, ?",
		},
		{
			name:     "sqlite ignores start",
			flavor:   db.FlavorSQLite,
			start:    5,
			n:        2,
			expected: "?, ?",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, inListPlaceholders(tc.flavor, tc.start, tc.n))
		})
	}
}

func TestPriorityExpr(t *testing.T) {
	template := `(SELECT description FROM descriptions WHERE id = %s)`

	t.Run("postgres chain of two", func(t *testing.T) {
		expr := priorityExpr(db.FlavorPostgres, template, 2)
		expected := `COALESCE((SELECT description FROM descriptions WHERE id = $1), (SELECT description FROM descriptions WHERE id = $2))`
		assert.Equal(t, expected, expr)
	})

	t.Run("sqlite chain of three", func(t *testing.T) {
		expr := priorityExpr(db.FlavorSQLite, template, 3)
		expected := `COALESCE((SELECT description FROM descriptions WHERE id = ?), (SELECT description FROM descriptions WHERE id = ?), (SELECT description FROM descriptions WHERE id = ?))`
		assert.Equal(t, expected, expr)
	})

	// SQLite rejects a one-argument COALESCE, so a lone lookup stays bare
	t.Run("postgres single level bare", func(t *testing.T) {
		expr := priorityExpr(db.FlavorPostgres, template, 1)
		expected := `(SELECT description FROM descriptions WHERE id = $1)`
		assert.Equal(t, expected, expr)
	})

	t.Run("sqlite single level bare", func(t *testing.T) {
		expr := priorityExpr(db.FlavorSQLite, template, 1)
		expected := `(SELECT description FROM descriptions WHERE id = ?)`
		assert.Equal(t, expected, expr)
	})
}

func TestIDArgs(t *testing.T) {
	args := idArgs([]string{"a", "b"})
	assert.Equal(t, []interface{}{"a", "b"}, args)

	assert.Empty(t, idArgs(nil))
}
