/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

DECIMALS:
  Wages, salary and half-hour totals travel as strings so clients never
  see float artifacts.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/timeclock/worklog"
)

// RecordDTO represents a work record in API responses.
type RecordDTO struct {
	ID             string `json:"id"`
	Date           string `json:"date"`
	Start          string `json:"start"`
	End            string `json:"end"`
	TotalSeconds   int    `json:"total_seconds"`
	Display        string `json:"display"`
	HalfHours      string `json:"half_hours"`
	Hourly         string `json:"hourly"`
	Salary         string `json:"salary"`
	ModifiedHourly bool   `json:"modified_hourly"`
	Description    string `json:"description,omitempty"`
	CustomWindow   bool   `json:"custom_window"`
	CustomStartMin int    `json:"custom_start_min,omitempty"`
	CustomEndMin   int    `json:"custom_end_min,omitempty"`
}

func toRecordDTO(rec worklog.WorkRecord) RecordDTO {
	return RecordDTO{
		ID:             string(rec.ID),
		Date:           rec.Date.Format("2006-01-02"),
		Start:          rec.Start.Format(time.RFC3339),
		End:            rec.End.Format(time.RFC3339),
		TotalSeconds:   rec.TotalSeconds,
		Display:        rec.Display,
		HalfHours:      rec.HalfHours.String(),
		Hourly:         rec.Hourly.String(),
		Salary:         rec.Salary.String(),
		ModifiedHourly: rec.ModifiedHourly,
		Description:    rec.Description,
		CustomWindow:   rec.CustomWindow,
		CustomStartMin: rec.CustomStartMin,
		CustomEndMin:   rec.CustomEndMin,
	}
}

func toRecordDTOs(recs []worklog.WorkRecord) []RecordDTO {
	dtos := make([]RecordDTO, len(recs))
	for i, rec := range recs {
		dtos[i] = toRecordDTO(rec)
	}
	return dtos
}

// ClockInRequest starts a session.
type ClockInRequest struct {
	At          string `json:"at,omitempty"` // RFC3339; empty means now
	Description string `json:"description,omitempty"`
}

// ClockOutRequest ends the open session.
type ClockOutRequest struct {
	At string `json:"at,omitempty"` // RFC3339; empty means now
}

// ClockStatusDTO reports the open session, if any.
type ClockStatusDTO struct {
	ClockedIn   bool   `json:"clocked_in"`
	Start       string `json:"start,omitempty"`
	Description string `json:"description,omitempty"`
}

// EditRecordRequest patches a record. Nil fields are left as-is; the
// record is recomputed after the patch. Setting Hourly marks the
// record's wage as manually modified.
type EditRecordRequest struct {
	Start          *string `json:"start,omitempty"`
	End            *string `json:"end,omitempty"`
	Hourly         *string `json:"hourly,omitempty"`
	Description    *string `json:"description,omitempty"`
	CustomWindow   *bool   `json:"custom_window,omitempty"`
	CustomStartMin *int    `json:"custom_start_min,omitempty"`
	CustomEndMin   *int    `json:"custom_end_min,omitempty"`
}

// RemoveRecordsRequest deletes records by position in the current
// most-recent-first ordering.
type RemoveRecordsRequest struct {
	Indices []int `json:"indices"`
}

// SettingsDTO mirrors config.Settings over the wire.
type SettingsDTO struct {
	WagePerHour   string `json:"wage_per_hour"`
	WindowEnabled bool   `json:"window_enabled"`
	WindowStart   int    `json:"window_start_min"`
	WindowEnd     int    `json:"window_end_min"`
}

// ApplyWageRequest bulk-recomputes stored records under a wage and the
// current window policy. Scope is "all" or "month" (with Year/Month).
type ApplyWageRequest struct {
	Scope           string `json:"scope"`
	Year            int    `json:"year,omitempty"`
	Month           int    `json:"month,omitempty"`
	WagePerHour     string `json:"wage_per_hour,omitempty"` // empty keeps the configured wage
	IncludeModified bool   `json:"include_modified"`
}

// ApplyWageResponse reports how many records changed.
type ApplyWageResponse struct {
	Changed        int    `json:"changed"`
	PersistWarning string `json:"persist_warning,omitempty"`
}

// MonthSummaryDTO aggregates a month.
type MonthSummaryDTO struct {
	Year         int         `json:"year"`
	Month        int         `json:"month"`
	Records      []RecordDTO `json:"records"`
	TotalSeconds int         `json:"total_seconds"`
	TotalDisplay string      `json:"total_display"`
	TotalSalary  string      `json:"total_salary"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
