package services

import "errors"

// Service-level sentinel errors, mapped to problem responses by the
// HTTP handlers.
var (
	// Dataset errors
	ErrNoData          = errors.New("no employment data found")
	ErrSourceNotFound  = errors.New("source file not found")
	ErrCompanyNotFound = errors.New("company not found")

	// Insights errors
	ErrNoReportsFound = errors.New("no insight reports found")

	// General errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
