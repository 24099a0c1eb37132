/*
errors.go - Centralized error types for the worklog engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Expected conditions (invalid interval, not found) are ordinary error
  returns; only I/O failures are reportable-but-recoverable.

USAGE:
  Callers match with errors.Is():

    if errors.Is(err, worklog.ErrInvalidInterval) { ... }

  A PersistenceError return from a store mutation means the mutation
  took effect in memory but the durable write failed; the in-memory
  state remains authoritative for the rest of the process.

SEE ALSO:
  - store.go: Produces these errors
*/
package worklog

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInterval is returned when a session's end time is not
	// strictly after its start time. Never silently corrected.
	ErrInvalidInterval = errors.New("invalid interval: end not after start")

	// ErrNotFound is returned when a record ID or index is not present
	// in the store. The store state is unchanged.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyClockedIn is returned when a clock-in arrives while a
	// session is already open.
	ErrAlreadyClockedIn = errors.New("already clocked in")

	// ErrNotClockedIn is returned when a clock-out arrives with no open
	// session.
	ErrNotClockedIn = errors.New("not clocked in")

	// ErrPersistenceFailed is returned when the durable write did not
	// complete. The in-memory collection stays authoritative.
	ErrPersistenceFailed = errors.New("persistence failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// IntervalError reports the offending time bounds.
type IntervalError struct {
	Start time.Time
	End   time.Time
}

func (e *IntervalError) Error() string {
	return fmt.Sprintf("invalid interval: end %s not after start %s",
		e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
}

func (e *IntervalError) Unwrap() error { return ErrInvalidInterval }

// NotFoundError identifies the missing record by ID or position.
type NotFoundError struct {
	ID    RecordID
	Index int // meaningful only when ID is empty
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("record %s not found", e.ID)
	}
	return fmt.Sprintf("record index %d out of range", e.Index)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// PersistenceError wraps the underlying I/O failure of a durable write.
type PersistenceError struct {
	Op  string // "save" or "load"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return ErrPersistenceFailed }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid input or a
// missing record rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInterval) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAlreadyClockedIn) ||
		errors.Is(err, ErrNotClockedIn)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsPersistWarning returns true if the operation succeeded in memory
// but the durable write failed.
func IsPersistWarning(err error) bool { return errors.Is(err, ErrPersistenceFailed) }
