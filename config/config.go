/*
Package config holds the process-wide wage and pay-window settings.

PURPOSE:
  The engine itself never reads ambient configuration; front-ends load
  Settings here and pass the wage and window policy to every store call
  explicitly. The settings file uses the same atomic replace-on-write
  scheme as the record snapshot.

FIRST RUN:
  A WagePerHour of zero means "unset" and makes front-ends prompt for a
  wage before computing salary. Missing or corrupt settings degrade to
  defaults rather than failing startup.
*/
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/warp/timeclock/worklog"
)

// Settings is the persisted wage and global window policy.
type Settings struct {
	WagePerHour decimal.Decimal      `json:"wage_per_hour"`
	Window      worklog.WindowPolicy `json:"window"`
}

// Default returns zero wage (unset) with the disabled 09:00-18:00
// window.
func Default() Settings {
	return Settings{WagePerHour: decimal.Zero, Window: worklog.DefaultWindowPolicy()}
}

// WageSet reports whether a wage has been configured.
func (s Settings) WageSet() bool { return !s.WagePerHour.IsZero() }

// Load reads settings from path. A missing file yields defaults; a
// corrupt file is backed up with a ".corrupt" suffix and yields
// defaults too.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("reading settings %s: %w", path, err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		backup := path + ".corrupt"
		_ = os.Rename(path, backup)
		log.Printf("config: corrupt settings in %s backed up to %s, using defaults: %v", path, backup, err)
		return Default(), nil
	}
	if !s.Window.Valid() {
		s.Window = worklog.DefaultWindowPolicy()
	}
	return s, nil
}

// Save atomically writes settings to path.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing temp settings: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
