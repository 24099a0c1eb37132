/*
window.go - Pay-window intersection

PURPOSE:
  Computes the payable subset of a raw work interval against a daily
  recurring pay window, including windows that roll over midnight
  (night shifts like 22:00-06:00).

ROLLOVER RULE:
  The window is anchored to the calendar day of the session's start.
  If the window end is numerically at or before the window start, the
  window is treated as extending into the next calendar day. This is
  the sole rollover rule; no external "overnight" flag exists.

SEE ALSO:
  - recompute.go: Applies the resolved window to a record
  - types.go: WindowPolicy and the per-record override precedence
*/
package worklog

import "time"

// PaidSeconds returns the number of whole seconds of [start, end]
// that fall inside the daily pay window, in the local calendar.
//
// end at or before start yields 0 (clock skew or an invalid edit,
// never an error here). A disabled window passes the raw interval
// through. A session entirely outside the window yields 0.
func PaidSeconds(start, end time.Time, enabled bool, startMin, endMin int) int {
	if !end.After(start) {
		return 0
	}
	if !enabled {
		return int(end.Sub(start) / time.Second)
	}

	day := Midnight(start)
	winStart := day.Add(time.Duration(startMin) * time.Minute)
	winEnd := day.Add(time.Duration(endMin) * time.Minute)
	if !winEnd.After(winStart) {
		// Window spans midnight into the next day.
		winEnd = winEnd.Add(24 * time.Hour)
	}

	effStart := start
	if winStart.After(effStart) {
		effStart = winStart
	}
	effEnd := end
	if winEnd.Before(effEnd) {
		effEnd = winEnd
	}
	if !effEnd.After(effStart) {
		return 0
	}
	return int(effEnd.Sub(effStart) / time.Second)
}
