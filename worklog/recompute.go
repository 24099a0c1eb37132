/*
recompute.go - Derivation of all dependent WorkRecord fields

PURPOSE:
  Recompute is the single place where a record's payable seconds,
  display string, half-hour decimal, wage and salary are derived. Every
  path that creates or edits a record goes through it, so the derived
  fields can never drift out of sync with the time bounds.

CONTRACT:
  Recompute touches ONLY the derived timing/pay fields and the applied
  hourly rate. ModifiedHourly, Description, Date, and the custom-window
  fields pass through untouched. It has no side effects; callers store
  the returned value.

SEE ALSO:
  - window.go: PaidSeconds
  - store.go: Bulk recomputation (ApplyToAll / ApplyToMonth)
*/
package worklog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Recompute derives all dependent fields of rec from its time bounds,
// the given wage rate, and the window policy. The per-record custom
// window, when present, overrides the global policy and is treated as
// unconditionally enabled.
func Recompute(rec WorkRecord, hourly decimal.Decimal, policy WindowPolicy) WorkRecord {
	enabled, startMin, endMin := policy.EffectiveWindow(rec)
	payable := PaidSeconds(rec.Start, rec.End, enabled, startMin, endMin)

	rec.TotalSeconds = payable
	rec.Display = FormatDuration(payable)
	rec.HalfHours = HalfHourFloor(payable)
	rec.Hourly = hourly
	rec.Salary = rec.HalfHours.Mul(hourly)
	return rec
}

// NewWorkRecord builds a fully derived record for a completed session.
// The attributed Date is the local midnight of start's day, fixed at
// construction. Returns an IntervalError when end is not strictly
// after start.
func NewWorkRecord(start, end time.Time, description string, hourly decimal.Decimal, policy WindowPolicy) (WorkRecord, error) {
	if !end.After(start) {
		return WorkRecord{}, &IntervalError{Start: start, End: end}
	}
	rec := WorkRecord{
		ID:          RecordID(uuid.NewString()),
		Date:        Midnight(start),
		Start:       start,
		End:         end,
		Description: description,
	}
	return Recompute(rec, hourly, policy), nil
}
