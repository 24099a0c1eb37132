/*
session.go - Clock-in / clock-out lifecycle

PURPOSE:
  A WorkRecord exists only for a COMPLETED session: clock-in alone
  creates no record, it opens a session; a successful clock-out turns
  that session into a record via NewWorkRecord and Add. At most one
  session is open at a time, and it is persisted with the snapshot so a
  restart does not lose a running clock.

DISCARD RULE:
  A clock-out at or before the clock-in time discards the open session
  without creating a record (clock skew, or the machine clock moved
  backwards). The caller gets ErrInvalidInterval.
*/
package worklog

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ClockIn opens a session starting at the given time. Fails with
// ErrAlreadyClockedIn if a session is already open.
func (s *RecordStore) ClockIn(ctx context.Context, at time.Time, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open != nil {
		return ErrAlreadyClockedIn
	}
	s.open = &OpenSession{Start: at, Description: description}
	return s.persistLocked(ctx)
}

// ClockOut closes the open session and adds the resulting record at
// the head of the collection. Fails with ErrNotClockedIn when no
// session is open. A clock-out at or before the clock-in discards the
// session and returns ErrInvalidInterval; no record is created either
// way on failure.
func (s *RecordStore) ClockOut(ctx context.Context, at time.Time, hourly decimal.Decimal, policy WindowPolicy) (WorkRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open == nil {
		return WorkRecord{}, ErrNotClockedIn
	}

	rec, err := NewWorkRecord(s.open.Start, at, s.open.Description, hourly, policy)
	s.open = nil
	if err != nil {
		// Discard the session; persist so the dropped clock survives
		// a restart too.
		if perr := s.persistLocked(ctx); perr != nil {
			return WorkRecord{}, perr
		}
		return WorkRecord{}, err
	}

	s.records = append([]WorkRecord{rec}, s.records...)
	return rec, s.persistLocked(ctx)
}

// CancelSession drops the open session without creating a record.
// Fails with ErrNotClockedIn when nothing is open.
func (s *RecordStore) CancelSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open == nil {
		return ErrNotClockedIn
	}
	s.open = nil
	return s.persistLocked(ctx)
}

// OpenSessionInfo returns a copy of the open session, or nil.
func (s *RecordStore) OpenSessionInfo() *OpenSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.open == nil {
		return nil
	}
	cp := *s.open
	return &cp
}
