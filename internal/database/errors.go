package database

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("entity not found")

// ValidationError reports a record rejected at the ingestion boundary
type ValidationError struct {
	Record string // e.g. "zones.csv:4" or "shelter S2"
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Record == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: invalid %s: %s", e.Record, e.Field, e.Reason)
}

// IsValidation reports whether err is or wraps a *ValidationError
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// ErrConflict is returned when a record with the same identity already exists
var ErrConflict = errors.New("entity already exists")
