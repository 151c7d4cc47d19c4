package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRange      = errors.New("invalid range")
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrSchemaMismatch    = errors.New("schema mismatch")
	ErrUnknownQuery      = errors.New("unknown query id")
)

// InvalidRangeError is a malformed period or count request.
type InvalidRangeError struct {
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidRange, e.Reason)
}

func (e *InvalidRangeError) Is(target error) bool { return target == ErrInvalidRange }

// SourceUnavailableError is a failed upstream fetch. It is never retried by
// the pipeline itself.
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrSourceUnavailable, e.Source, e.Err)
}

func (e *SourceUnavailableError) Is(target error) bool { return target == ErrSourceUnavailable }

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// SchemaMismatchError reports rows or columns that do not match the RawEvent shape.
type SchemaMismatchError struct {
	Source string
	Err    error
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrSchemaMismatch, e.Source, e.Err)
}

func (e *SchemaMismatchError) Is(target error) bool { return target == ErrSchemaMismatch }

func (e *SchemaMismatchError) Unwrap() error { return e.Err }

// EmptyResultWarning is attached to a report that has no entities or no
// events in range. The report is still fully zero-filled.
type EmptyResultWarning struct {
	Message string
}

func (w EmptyResultWarning) String() string { return w.Message }
