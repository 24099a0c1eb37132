package worklog

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TIME ARITHMETIC - Duration rendering and half-hour rounding
// =============================================================================

const (
	secondsPerHour     = 3600
	secondsPerHalfHour = 1800
	minutesPerDay      = 24 * 60
)

var decimalTwo = decimal.NewFromInt(2)

// FormatDuration renders a duration in whole seconds as whole hours and
// remainder minutes. Integer truncation only, no rounding.
func FormatDuration(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	hours := totalSeconds / secondsPerHour
	minutes := (totalSeconds % secondsPerHour) / 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// HalfHourFloor converts a duration in whole seconds to hours floored
// to the nearest 0.5. Anything under 30 minutes yields zero. This must
// never round up: payable hours only ever shrink to the half-hour
// boundary below them.
func HalfHourFloor(totalSeconds int) decimal.Decimal {
	if totalSeconds < 0 {
		return decimal.Zero
	}
	// Integer count of full half-hours, then an exact decimal halving.
	halves := int64(totalSeconds / secondsPerHalfHour)
	return decimal.NewFromInt(halves).Div(decimalTwo)
}

// Midnight returns local midnight of t's calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
