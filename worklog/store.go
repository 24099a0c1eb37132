/*
store.go - In-memory record collection with durable write-through

PURPOSE:
  RecordStore owns the ordered collection of WorkRecords exclusively.
  All mutations (Add, Remove, Replace, bulk apply, clock in/out) go
  through it; each mutation persists the full snapshot synchronously
  before returning.

ORDERING:
  Records are kept most-recent-first: Add inserts at the head, Remove
  addresses positions in the current ordering.

PERSISTENCE CONTRACT:
  Persisters write the whole snapshot atomically (temp file + rename,
  or one transaction). A failed persist does NOT roll back the
  in-memory mutation: the in-memory collection is the source of truth
  for the current process and the failure is surfaced as a
  PersistenceError the caller treats as a warning.

CONCURRENCY:
  The original interaction model is a single writer, but the HTTP
  surface makes this a multi-writer context, so every operation
  serializes behind one mutex. ApplyToAll/ApplyToMonth read-then-write
  every record and must not interleave with other mutations.

SEE ALSO:
  - store/file: Atomic replace-on-write JSON persister
  - store/sqlite: SQLite persister, same contract
  - store/memory: In-memory persister for tests
*/
package worklog

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PERSISTER - Durable storage collaborator
// =============================================================================

// Persister stores and retrieves the full snapshot. Save must be
// atomic: a reader sees either the old complete snapshot or the new
// one, never a partial write. Load degrades to an empty snapshot on a
// missing or corrupt store rather than failing startup.
type Persister interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (Snapshot, error)
}

// =============================================================================
// RECORD STORE
// =============================================================================

// RecordStore is the exclusive owner of the record collection.
type RecordStore struct {
	mu        sync.RWMutex
	records   []WorkRecord
	open      *OpenSession
	persister Persister
}

// NewRecordStore creates an empty store backed by p.
func NewRecordStore(p Persister) *RecordStore {
	return &RecordStore{persister: p}
}

// Load replaces the in-memory state with the persisted snapshot.
// Called once at startup, before any mutation.
func (s *RecordStore) Load(ctx context.Context) error {
	snap, err := s.persister.Load(ctx)
	if err != nil {
		return &PersistenceError{Op: "load", Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = snap.Records
	s.open = snap.Open
	return nil
}

// persistLocked writes the current snapshot. The caller holds s.mu.
// A failed write keeps the in-memory state and returns a warning.
func (s *RecordStore) persistLocked(ctx context.Context) error {
	snap := Snapshot{Records: append([]WorkRecord(nil), s.records...), Open: s.open}
	if err := s.persister.Save(ctx, snap); err != nil {
		log.Printf("worklog: persist failed, in-memory state kept: %v", err)
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}

// =============================================================================
// CRUD
// =============================================================================

// Add validates and inserts a record at the head of the collection
// (most-recent-first), then persists. A record whose end is not
// strictly after its start is rejected, never corrected.
func (s *RecordStore) Add(ctx context.Context, rec WorkRecord) error {
	if !rec.End.After(rec.Start) {
		return &IntervalError{Start: rec.Start, End: rec.End}
	}
	// Date is derived state; re-anchor it so the invariant holds no
	// matter what the caller built.
	rec.Date = Midnight(rec.Start)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]WorkRecord{rec}, s.records...)
	return s.persistLocked(ctx)
}

// Remove deletes the records at the given positions in the current
// ordering, then persists. Any out-of-range index fails the whole call
// with NotFound and leaves the store unchanged.
func (s *RecordStore) Remove(ctx context.Context, indices []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, i := range indices {
		if i < 0 || i >= len(s.records) {
			return &NotFoundError{Index: i}
		}
	}

	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}
	kept := s.records[:0]
	for i, rec := range s.records {
		if !drop[i] {
			kept = append(kept, rec)
		}
	}
	s.records = kept
	return s.persistLocked(ctx)
}

// Replace overwrites the record with the same ID in place, then
// persists. This is the sole entry point for edits; the replacement
// must carry a valid interval and its Date is re-derived from Start.
func (s *RecordStore) Replace(ctx context.Context, rec WorkRecord) error {
	if !rec.End.After(rec.Start) {
		return &IntervalError{Start: rec.Start, End: rec.End}
	}
	rec.Date = Midnight(rec.Start)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == rec.ID {
			s.records[i] = rec
			return s.persistLocked(ctx)
		}
	}
	return &NotFoundError{ID: rec.ID}
}

// Get returns the record with the given ID.
func (s *RecordStore) Get(id RecordID) (WorkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return WorkRecord{}, &NotFoundError{ID: id}
}

// List returns a copy of the collection, most-recent-first.
func (s *RecordStore) List() []WorkRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]WorkRecord(nil), s.records...)
}

// ListMonth returns the records attributed to the given local calendar
// year/month, most-recent-first.
func (s *RecordStore) ListMonth(year int, month time.Month) []WorkRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []WorkRecord
	for _, rec := range s.records {
		if rec.InMonth(year, month) {
			out = append(out, rec)
		}
	}
	return out
}

// Len returns the number of stored records.
func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// =============================================================================
// BULK RECOMPUTATION
// =============================================================================

// ApplyToAll recomputes every record under the given wage and window
// policy and returns the number of records changed. Records whose
// ModifiedHourly flag is set are skipped unless includeModified is
// true; a skipped record keeps its stale Hourly and Salary untouched.
// One persist after the full pass.
func (s *RecordStore) ApplyToAll(ctx context.Context, hourly decimal.Decimal, includeModified bool, policy WindowPolicy) (int, error) {
	return s.applyWhere(ctx, hourly, includeModified, policy, nil)
}

// ApplyToMonth is ApplyToAll filtered to records whose attributed Date
// falls in the given local calendar year/month.
func (s *RecordStore) ApplyToMonth(ctx context.Context, year int, month time.Month, hourly decimal.Decimal, includeModified bool, policy WindowPolicy) (int, error) {
	return s.applyWhere(ctx, hourly, includeModified, policy, func(rec WorkRecord) bool {
		return rec.InMonth(year, month)
	})
}

func (s *RecordStore) applyWhere(ctx context.Context, hourly decimal.Decimal, includeModified bool, policy WindowPolicy, match func(WorkRecord) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for i, rec := range s.records {
		if match != nil && !match(rec) {
			continue
		}
		if rec.ModifiedHourly && !includeModified {
			continue
		}
		s.records[i] = Recompute(rec, hourly, policy)
		count++
	}
	if count == 0 {
		return 0, nil
	}
	return count, s.persistLocked(ctx)
}

// =============================================================================
// SUMMARIES
// =============================================================================

// MonthSummary aggregates a month's payable time and salary.
type MonthSummary struct {
	Year         int
	Month        time.Month
	Records      int
	TotalSeconds int
	TotalSalary  decimal.Decimal
}

// SummarizeMonth totals payable seconds and salary for the given local
// calendar year/month.
func (s *RecordStore) SummarizeMonth(year int, month time.Month) MonthSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := MonthSummary{Year: year, Month: month, TotalSalary: decimal.Zero}
	for _, rec := range s.records {
		if !rec.InMonth(year, month) {
			continue
		}
		sum.Records++
		sum.TotalSeconds += rec.TotalSeconds
		sum.TotalSalary = sum.TotalSalary.Add(rec.Salary)
	}
	return sum
}
