// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates that required input is missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrImportFormat indicates a malformed import payload; nothing was applied.
	ErrImportFormat = errors.New("invalid import format")

	// ErrExport indicates a certificate rendering or encoding failure.
	ErrExport = errors.New("export failed")

	// ErrIDSpaceExhausted indicates that no free id could be found.
	ErrIDSpaceExhausted = errors.New("id space exhausted")
)
