package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested upload or report does not exist.
var ErrNotFound = errors.New("not found")

// ParseError describes a ledger row that could not be parsed. The normalizer
// drops such rows and reports them instead of failing.
type ParseError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: invalid %s %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// EmptyLedgerError is returned when no row survives cleaning.
type EmptyLedgerError struct {
	RowsRead    int
	RowsDropped int
}

func (e *EmptyLedgerError) Error() string {
	return fmt.Sprintf("ledger is empty after cleaning: %d rows read, %d dropped", e.RowsRead, e.RowsDropped)
}

// UnsupportedFileTypeError is returned for uploads that are not a known export format.
type UnsupportedFileTypeError struct {
	Filename string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.Filename)
}

// InsufficientDataError is returned when a series is too short to decompose.
type InsufficientDataError struct {
	Points int
	Period int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d points, need at least %d for period %d", e.Points, 2*e.Period, e.Period)
}
