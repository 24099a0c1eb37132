package worklog_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/warp/timeclock/worklog"
)

// =============================================================================
// DURATION FORMATTING TESTS
// =============================================================================

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "0h 0m"},
		{59, "0h 0m"},
		{60, "0h 1m"},
		{1799, "0h 29m"},
		{1800, "0h 30m"},
		{3600, "1h 0m"},
		{30600, "8h 30m"},
		{-5, "0h 0m"},
	}
	for _, c := range cases {
		if got := worklog.FormatDuration(c.seconds); got != c.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", c.seconds, got, c.want)
		}
	}
}

// =============================================================================
// HALF-HOUR FLOOR TESTS
// =============================================================================

func TestHalfHourFloor_UnderThirtyMinutesIsZero(t *testing.T) {
	// GIVEN: Any duration under 30 minutes
	// THEN: Floors to exactly zero hours
	for _, s := range []int{0, 1, 60, 900, 1799} {
		if got := worklog.HalfHourFloor(s); !got.IsZero() {
			t.Errorf("HalfHourFloor(%d) = %s, want 0", s, got)
		}
	}
}

func TestHalfHourFloor_ExactSteps(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{1800, "0.5"},
		{3599, "0.5"},
		{3600, "1"},
		{5399, "1"},
		{5400, "1.5"},
		{30600, "8.5"},
		{32400, "9"},
	}
	for _, c := range cases {
		want := mustDecimal(t, c.want)
		if got := worklog.HalfHourFloor(c.seconds); !got.Equal(want) {
			t.Errorf("HalfHourFloor(%d) = %s, want %s", c.seconds, got, want)
		}
	}
}

func TestHalfHourFloor_NeverRoundsUp(t *testing.T) {
	// GIVEN: A sweep of durations
	// THEN: The result is a multiple of 0.5 and sits in
	//       [result, result+0.5) around the true hour value.
	half := mustDecimal(t, "0.5")
	hourSecs := decimal.NewFromInt(3600)

	for s := 0; s <= 4*3600; s += 97 {
		got := worklog.HalfHourFloor(s)

		if !got.Mod(half).IsZero() {
			t.Fatalf("HalfHourFloor(%d) = %s is not a multiple of 0.5", s, got)
		}
		trueHours := decimal.NewFromInt(int64(s)).Div(hourSecs)
		if got.GreaterThan(trueHours) {
			t.Fatalf("HalfHourFloor(%d) = %s rounds up past %s", s, got, trueHours)
		}
		if trueHours.GreaterThanOrEqual(got.Add(half)) {
			t.Fatalf("HalfHourFloor(%d) = %s floors too far below %s", s, got, trueHours)
		}
	}
}

func TestHalfHourFloor_NegativeIsZero(t *testing.T) {
	if got := worklog.HalfHourFloor(-100); !got.IsZero() {
		t.Errorf("HalfHourFloor(-100) = %s, want 0", got)
	}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}
