// Package memory provides an in-memory Persister for tests and dev.
package memory

import (
	"context"
	"sync"

	"github.com/warp/timeclock/worklog"
)

// =============================================================================
// MEMORY PERSISTER - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu    sync.Mutex
	snap  worklog.Snapshot
	saves int

	// FailSave, when set, is returned by every Save. Lets tests
	// exercise the persist-failure contract.
	FailSave error
}

func New() *Store { return &Store{} }

// Save keeps a deep-enough copy of the snapshot.
func (m *Store) Save(_ context.Context, snap worklog.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return m.FailSave
	}
	cp := worklog.Snapshot{Records: append([]worklog.WorkRecord(nil), snap.Records...)}
	if snap.Open != nil {
		open := *snap.Open
		cp.Open = &open
	}
	m.snap = cp
	m.saves++
	return nil
}

// Load returns the last saved snapshot; empty before the first Save.
func (m *Store) Load(_ context.Context) (worklog.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := worklog.Snapshot{Records: append([]worklog.WorkRecord(nil), m.snap.Records...)}
	if m.snap.Open != nil {
		open := *m.snap.Open
		cp.Open = &open
	}
	return cp, nil
}

// Saves reports how many Save calls succeeded. Used by tests to assert
// the persist-once-per-bulk-pass contract.
func (m *Store) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
