/*
handlers.go - HTTP API handlers for the timeclock system

PURPOSE:
  Exposes the worklog engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Clock:
    POST   /api/clock/in               Start a session
    POST   /api/clock/out              End the session, create a record
    GET    /api/clock/status           Running-clock status
    DELETE /api/clock                  Cancel the open session

  Records:
    GET    /api/records                List all records
    GET    /api/records/{id}           Get one record
    PUT    /api/records/{id}           Edit (sole edit entry point)
    DELETE /api/records                Remove by positions
    GET    /api/records/month/{year}/{month}  Month listing + totals

  Settings:
    GET    /api/settings               Current wage + window policy
    PUT    /api/settings               Update wage + window policy
    POST   /api/settings/apply         Bulk recompute (all or month)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid interval, malformed input
  - 404: Record not found
  - 409: Clock state conflicts (already/not clocked in)
  - 500: Internal errors
  A failed durable write is NOT an operation failure: the response
  succeeds and carries a persist_warning field, since the in-memory
  state is authoritative for the running process.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/timeclock/config"
	"github.com/warp/timeclock/worklog"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *worklog.RecordStore

	mu           sync.RWMutex
	settings     config.Settings
	settingsPath string // empty disables settings persistence (tests)
}

// NewHandler creates a handler over the given store and settings.
func NewHandler(store *worklog.RecordStore, settings config.Settings, settingsPath string) *Handler {
	return &Handler{Store: store, settings: settings, settingsPath: settingsPath}
}

// Settings returns the current settings.
func (h *Handler) Settings() config.Settings {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.settings
}

func (h *Handler) saveSettings(s config.Settings) error {
	h.mu.Lock()
	h.settings = s
	path := h.settingsPath
	h.mu.Unlock()
	if path == "" {
		return nil
	}
	return config.Save(path, s)
}

// =============================================================================
// CLOCK HANDLERS
// =============================================================================

// ClockIn starts a session.
// POST /api/clock/in
func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	var req ClockInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	at, err := parseTimeOrNow(req.At)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid clock-in time", err)
		return
	}

	if err := h.Store.ClockIn(r.Context(), at, req.Description); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ClockStatusDTO{
		ClockedIn:   true,
		Start:       at.Format(time.RFC3339),
		Description: req.Description,
	})
}

// ClockOut ends the open session and returns the created record.
// POST /api/clock/out
func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	var req ClockOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	at, err := parseTimeOrNow(req.At)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid clock-out time", err)
		return
	}

	settings := h.Settings()
	rec, err := h.Store.ClockOut(r.Context(), at, settings.WagePerHour, settings.Window)
	if err != nil && !worklog.IsPersistWarning(err) {
		writeDomainError(w, err)
		return
	}
	resp := struct {
		Record         RecordDTO `json:"record"`
		PersistWarning string    `json:"persist_warning,omitempty"`
	}{Record: toRecordDTO(rec)}
	if err != nil {
		resp.PersistWarning = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// ClockStatus reports the running clock.
// GET /api/clock/status
func (h *Handler) ClockStatus(w http.ResponseWriter, r *http.Request) {
	open := h.Store.OpenSessionInfo()
	status := ClockStatusDTO{ClockedIn: open != nil}
	if open != nil {
		status.Start = open.Start.Format(time.RFC3339)
		status.Description = open.Description
	}
	writeJSON(w, http.StatusOK, status)
}

// CancelClock drops the open session without creating a record.
// DELETE /api/clock
func (h *Handler) CancelClock(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.CancelSession(r.Context()); err != nil && !worklog.IsPersistWarning(err) {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ClockStatusDTO{ClockedIn: false})
}

// =============================================================================
// RECORD HANDLERS
// =============================================================================

// ListRecords returns all records, most-recent-first.
// GET /api/records
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toRecordDTOs(h.Store.List()))
}

// GetRecord returns a single record.
// GET /api/records/{id}
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id := worklog.RecordID(chi.URLParam(r, "id"))
	rec, err := h.Store.Get(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec))
}

// EditRecord patches a record and recomputes it. The sole edit entry
// point; bulk recomputation never reaches Description or the
// custom-window fields, but an edit may change anything.
// PUT /api/records/{id}
func (h *Handler) EditRecord(w http.ResponseWriter, r *http.Request) {
	id := worklog.RecordID(chi.URLParam(r, "id"))
	rec, err := h.Store.Get(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req EditRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Start != nil {
		t, err := time.Parse(time.RFC3339, *req.Start)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid start time", err)
			return
		}
		rec.Start = t
	}
	if req.End != nil {
		t, err := time.Parse(time.RFC3339, *req.End)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end time", err)
			return
		}
		rec.End = t
	}
	if req.Description != nil {
		rec.Description = *req.Description
	}
	if req.CustomWindow != nil {
		rec.CustomWindow = *req.CustomWindow
	}
	if req.CustomStartMin != nil {
		rec.CustomStartMin = *req.CustomStartMin
	}
	if req.CustomEndMin != nil {
		rec.CustomEndMin = *req.CustomEndMin
	}
	if !validWindowMinutes(rec) {
		writeError(w, http.StatusBadRequest, "Custom window minutes out of range", nil)
		return
	}

	hourly := rec.Hourly
	if req.Hourly != nil {
		d, err := decimal.NewFromString(*req.Hourly)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid hourly wage", err)
			return
		}
		hourly = d
		rec.ModifiedHourly = true
	}

	rec = worklog.Recompute(rec, hourly, h.Settings().Window)

	err = h.Store.Replace(r.Context(), rec)
	if err != nil && !worklog.IsPersistWarning(err) {
		writeDomainError(w, err)
		return
	}
	resp := struct {
		Record         RecordDTO `json:"record"`
		PersistWarning string    `json:"persist_warning,omitempty"`
	}{Record: toRecordDTO(rec)}
	if err != nil {
		resp.PersistWarning = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// RemoveRecords deletes records by position.
// DELETE /api/records
func (h *Handler) RemoveRecords(w http.ResponseWriter, r *http.Request) {
	var req RemoveRecordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Indices) == 0 {
		writeError(w, http.StatusBadRequest, "No indices given", nil)
		return
	}

	err := h.Store.Remove(r.Context(), req.Indices)
	if err != nil && !worklog.IsPersistWarning(err) {
		writeDomainError(w, err)
		return
	}
	resp := struct {
		Remaining      int    `json:"remaining"`
		PersistWarning string `json:"persist_warning,omitempty"`
	}{Remaining: h.Store.Len()}
	if err != nil {
		resp.PersistWarning = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// MonthRecords lists a month with its payable and salary totals.
// GET /api/records/month/{year}/{month}
func (h *Handler) MonthRecords(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(chi.URLParam(r, "year"), chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year/month", err)
		return
	}

	recs := h.Store.ListMonth(year, month)
	sum := h.Store.SummarizeMonth(year, month)
	writeJSON(w, http.StatusOK, MonthSummaryDTO{
		Year:         year,
		Month:        int(month),
		Records:      toRecordDTOs(recs),
		TotalSeconds: sum.TotalSeconds,
		TotalDisplay: worklog.FormatDuration(sum.TotalSeconds),
		TotalSalary:  sum.TotalSalary.String(),
	})
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

// GetSettings returns the current wage and window policy.
// GET /api/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s := h.Settings()
	writeJSON(w, http.StatusOK, SettingsDTO{
		WagePerHour:   s.WagePerHour.String(),
		WindowEnabled: s.Window.Enabled,
		WindowStart:   s.Window.StartMin,
		WindowEnd:     s.Window.EndMin,
	})
}

// UpdateSettings replaces the wage and window policy. Stored records
// are untouched until an explicit apply.
// PUT /api/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	wage, err := decimal.NewFromString(req.WagePerHour)
	if err != nil || wage.IsNegative() {
		writeError(w, http.StatusBadRequest, "Invalid wage", err)
		return
	}
	s := config.Settings{
		WagePerHour: wage,
		Window: worklog.WindowPolicy{
			Enabled:  req.WindowEnabled,
			StartMin: req.WindowStart,
			EndMin:   req.WindowEnd,
		},
	}
	if !s.Window.Valid() {
		writeError(w, http.StatusBadRequest, "Window minutes out of range", nil)
		return
	}

	if err := h.saveSettings(s); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}
	h.GetSettings(w, r)
}

// ApplyWage bulk-recomputes stored records under a wage and the
// current window policy. Records with a manually modified wage are
// skipped unless include_modified is set.
// POST /api/settings/apply
func (h *Handler) ApplyWage(w http.ResponseWriter, r *http.Request) {
	var req ApplyWageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	settings := h.Settings()
	wage := settings.WagePerHour
	if req.WagePerHour != "" {
		d, err := decimal.NewFromString(req.WagePerHour)
		if err != nil || d.IsNegative() {
			writeError(w, http.StatusBadRequest, "Invalid wage", err)
			return
		}
		wage = d
		settings.WagePerHour = d
		if err := h.saveSettings(settings); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
			return
		}
	}

	var (
		changed int
		err     error
	)
	switch req.Scope {
	case "all":
		changed, err = h.Store.ApplyToAll(r.Context(), wage, req.IncludeModified, settings.Window)
	case "month":
		if req.Month < 1 || req.Month > 12 {
			writeError(w, http.StatusBadRequest, "Invalid month", nil)
			return
		}
		changed, err = h.Store.ApplyToMonth(r.Context(), req.Year, time.Month(req.Month), wage, req.IncludeModified, settings.Window)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scope %q", req.Scope), nil)
		return
	}

	resp := ApplyWageResponse{Changed: changed}
	if err != nil {
		if !worklog.IsPersistWarning(err) {
			writeError(w, http.StatusInternalServerError, "Apply failed", err)
			return
		}
		resp.PersistWarning = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// HELPERS
// =============================================================================

func parseTimeOrNow(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	return time.Parse(time.RFC3339, s)
}

func parseYearMonth(yearStr, monthStr string) (int, time.Month, error) {
	var year, month int
	if _, err := fmt.Sscanf(yearStr, "%d", &year); err != nil {
		return 0, 0, fmt.Errorf("bad year %q", yearStr)
	}
	if _, err := fmt.Sscanf(monthStr, "%d", &month); err != nil {
		return 0, 0, fmt.Errorf("bad month %q", monthStr)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month %d out of range", month)
	}
	return year, time.Month(month), nil
}

func validWindowMinutes(rec worklog.WorkRecord) bool {
	if !rec.CustomWindow {
		return true
	}
	return rec.CustomStartMin >= 0 && rec.CustomStartMin < 24*60 &&
		rec.CustomEndMin >= 0 && rec.CustomEndMin < 24*60
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps worklog errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case worklog.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Record not found", err)
	case errors.Is(err, worklog.ErrInvalidInterval):
		writeError(w, http.StatusBadRequest, "End time must be after start time", err)
	case errors.Is(err, worklog.ErrAlreadyClockedIn), errors.Is(err, worklog.ErrNotClockedIn):
		writeError(w, http.StatusConflict, "Clock state conflict", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
