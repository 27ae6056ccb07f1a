package db

import "fmt"

// Flavor identifies the SQL dialect of an open database. The two backends
// accept the same DDL and ON CONFLICT clauses; they differ only in
// positional placeholder syntax.
type Flavor int

const (
	// FlavorPostgres uses $1, $2, ... placeholders
	FlavorPostgres Flavor = iota
	// FlavorSQLite uses ? placeholders
	FlavorSQLite
)

// DriverName returns the database/sql driver name for the flavor
func (f Flavor) DriverName() string {
	if f == FlavorSQLite {
		return "sqlite3"
	}
	return "postgres"
}

// Placeholder returns the positional placeholder for the n-th bound
// parameter, 1-based.
func (f Flavor) Placeholder(n int) string {
	if f == FlavorSQLite {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}

func (f Flavor) String() string {
	return f.DriverName()
}
