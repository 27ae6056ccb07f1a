// Package errors provides error handling for QilletniMetadata.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for user-facing messages
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrNotConnected) {
//	    // handle disconnected store
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapOnce    = crdb.UnwrapOnce
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
)

var GetReportableStackTrace = crdb.GetReportableStackTrace

// GetStack is an alias for GetReportableStackTrace for convenience.
var GetStack = crdb.GetReportableStackTrace

// Common sentinel errors for the metadata store.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrNotConnected indicates the store was constructed but its backing
	// database never became reachable (schema bootstrap failed).
	ErrNotConnected = New("metadata store not connected")

	// ErrUnsupportedFieldType indicates a custom field value of a Go type
	// outside the supported set (string, integer, double, boolean).
	ErrUnsupportedFieldType = New("unsupported custom field type")

	// ErrUnknownFieldType indicates a stored custom field row carries a type
	// code outside the known range.
	ErrUnknownFieldType = New("unknown custom field type code")
)

// IsNotConnectedError checks if an error is or wraps ErrNotConnected.
func IsNotConnectedError(err error) bool {
	return err != nil && Is(err, ErrNotConnected)
}

// NewUnsupportedFieldTypeError creates an unsupported-field-type error
// naming the offending Go type.
func NewUnsupportedFieldTypeError(value interface{}) error {
	return Wrapf(ErrUnsupportedFieldType, "%T", value)
}
