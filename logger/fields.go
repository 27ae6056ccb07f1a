package logger

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity
	FieldObjectID  = "object_id"
	FieldChain     = "id_chain"
	FieldTag       = "tag"
	FieldFieldName = "field_name"

	// Database
	FieldBackend  = "backend"
	FieldHost     = "host"
	FieldPort     = "port"
	FieldDatabase = "database"
	FieldQuery    = "query"

	// Errors
	FieldError = "error"

	// Counts
	FieldCount = "count"
)
