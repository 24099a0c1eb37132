/*
Package worklog provides the core work-session tracking engine.

PURPOSE:
  This package contains the types and algorithms for converting raw
  work sessions (clock-in/clock-out intervals) into payable time and
  salary. The same engine serves the HTTP API and the CLI front-end.

KEY CONCEPTS IN THIS FILE (types.go):
  - WorkRecord: One completed work session with all derived pay fields
  - WindowPolicy: The daily "paid hours" window configuration
  - OpenSession: A clock-in that has not yet been clocked out
  - Snapshot: The full persisted state (records + open session)

DESIGN PRINCIPLES:
  1. Immutability: WorkRecord values are produced by the recompute
     engine, never patched field-by-field by callers
  2. Precision: Uses decimal.Decimal for wages and salary to avoid
     floating-point drift
  3. Explicit parameters: The engine never reads ambient configuration;
     the wage and window policy are arguments on every call

SEE ALSO:
  - window.go: Pay-window intersection and midnight rollover
  - recompute.go: Derivation of all dependent record fields
  - store.go: In-memory record collection and bulk operations
*/
package worklog

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// WORK RECORD - One completed work session
// =============================================================================

// RecordID uniquely identifies a WorkRecord. Assigned at creation,
// immutable afterwards.
type RecordID string

// WorkRecord is one completed work session. The derived fields
// (TotalSeconds through Salary) are set only by Recompute; treat the
// value as immutable and replace it whole.
type WorkRecord struct {
	ID RecordID `json:"id"`

	// Date is the calendar day the session is attributed to: the local
	// midnight of Start's day. Never derived from End.
	Date  time.Time `json:"date"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	// TotalSeconds is the payable duration in whole seconds. It may be
	// less than End-Start when a pay window trims the interval.
	TotalSeconds int `json:"total_seconds"`

	// Display renders TotalSeconds as whole hours + remainder minutes.
	Display string `json:"display"`

	// HalfHours is TotalSeconds expressed as hours, floored to the
	// nearest 0.5. Always a non-negative multiple of 0.5.
	HalfHours decimal.Decimal `json:"half_hours"`

	// Hourly is the wage rate applied at the last recomputation.
	Hourly decimal.Decimal `json:"hourly"`

	// Salary is HalfHours * Hourly.
	Salary decimal.Decimal `json:"salary"`

	// ModifiedHourly marks a manually overridden wage rate. Bulk wage
	// updates skip such records unless explicitly forced.
	ModifiedHourly bool `json:"modified_hourly"`

	Description string `json:"description,omitempty"`

	// Per-record pay-window override. When CustomWindow is true the
	// record's own minutes apply and the window is unconditionally
	// enabled, regardless of the global policy.
	CustomWindow   bool `json:"custom_window,omitempty"`
	CustomStartMin int  `json:"custom_start_min,omitempty"`
	CustomEndMin   int  `json:"custom_end_min,omitempty"`
}

// InMonth reports whether the record's attributed day falls in the
// given local calendar year/month. Membership is decided by Date alone,
// never by Start/End directly.
func (r WorkRecord) InMonth(year int, month time.Month) bool {
	return r.Date.Year() == year && r.Date.Month() == month
}

// =============================================================================
// WINDOW POLICY - Daily paid-hours window
// =============================================================================

// WindowPolicy is the process-wide pay-window configuration. Start and
// end are minutes since local midnight (0-1439). A window whose end is
// numerically at or before its start spans midnight into the next day.
type WindowPolicy struct {
	Enabled  bool `json:"enabled"`
	StartMin int  `json:"start_min"`
	EndMin   int  `json:"end_min"`
}

// DefaultWindowPolicy returns the disabled 09:00-18:00 window.
func DefaultWindowPolicy() WindowPolicy {
	return WindowPolicy{Enabled: false, StartMin: 9 * 60, EndMin: 18 * 60}
}

// EffectiveWindow resolves the window parameters that apply to rec.
// A record carrying its own window always has it enabled, even when
// the global policy is off; the boolean flag alone decides.
func (p WindowPolicy) EffectiveWindow(rec WorkRecord) (enabled bool, startMin, endMin int) {
	if rec.CustomWindow {
		return true, rec.CustomStartMin, rec.CustomEndMin
	}
	return p.Enabled, p.StartMin, p.EndMin
}

// Valid reports whether both minute bounds are within a single day.
func (p WindowPolicy) Valid() bool {
	return p.StartMin >= 0 && p.StartMin < minutesPerDay &&
		p.EndMin >= 0 && p.EndMin < minutesPerDay
}

// =============================================================================
// OPEN SESSION - Clock-in awaiting clock-out
// =============================================================================

// OpenSession is a running clock. At most one exists at a time; a
// WorkRecord is created only by a successful clock-out.
type OpenSession struct {
	Start       time.Time `json:"start"`
	Description string    `json:"description,omitempty"`
}

// =============================================================================
// SNAPSHOT - Full persisted state
// =============================================================================

// Snapshot is the unit of persistence: the ordered record collection
// (most-recent-first) plus the open session, if any. Persisters write
// and read it whole.
type Snapshot struct {
	Records []WorkRecord `json:"records"`
	Open    *OpenSession `json:"open_session,omitempty"`
}
