/*
Package file provides the JSON-file Persister.

PURPOSE:
  One file holds the full ordered record collection plus the open
  session, loaded whole at startup and rewritten whole on every
  mutation.

ATOMICITY:
  Save writes to a temp file in the same directory and renames it into
  place, so a crash mid-write leaves either the old complete file or
  the new one, never a partial file.

DEGRADATION:
  A missing file loads as an empty collection. A corrupt file is backed
  up with a ".corrupt" suffix and also loads as empty; startup never
  aborts on bad persisted data.
*/
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/warp/timeclock/worklog"
)

// Store persists snapshots to a single JSON file.
type Store struct {
	path string
}

// New creates a Store writing to the given file path. Parent
// directories are created on first Save.
func New(path string) *Store { return &Store{path: path} }

// Save atomically replaces the snapshot file.
func (s *Store) Save(_ context.Context, snap worklog.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

// Load reads the snapshot file. Missing or corrupt files degrade to an
// empty snapshot; corrupt files are backed up first.
func (s *Store) Load(_ context.Context) (worklog.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return worklog.Snapshot{}, nil
	}
	if err != nil {
		return worklog.Snapshot{}, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var snap worklog.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		backup := s.path + ".corrupt"
		_ = os.Rename(s.path, backup)
		log.Printf("file: corrupt snapshot in %s backed up to %s, starting empty: %v", s.path, backup, err)
		return worklog.Snapshot{}, nil
	}
	return snap, nil
}
