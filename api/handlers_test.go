package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/timeclock/api"
	"github.com/warp/timeclock/config"
	"github.com/warp/timeclock/store/memory"
	"github.com/warp/timeclock/worklog"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T, settings config.Settings) (*httptest.Server, *worklog.RecordStore) {
	t.Helper()
	store := worklog.NewRecordStore(memory.New())
	require.NoError(t, store.Load(context.Background()))

	handler := api.NewHandler(store, settings, "")
	srv := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv, store
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func wageSettings(wage int64) config.Settings {
	s := config.Default()
	s.WagePerHour = decimal.NewFromInt(wage)
	return s
}

func rfc(day, hour, min int) string {
	return time.Date(2026, time.March, day, hour, min, 0, 0, time.Local).Format(time.RFC3339)
}

// =============================================================================
// CLOCK FLOW
// =============================================================================

func TestClockFlow_InStatusOut(t *testing.T) {
	srv, store := newTestServer(t, wageSettings(200))

	resp := do(t, http.MethodPost, srv.URL+"/api/clock/in",
		api.ClockInRequest{At: rfc(2, 9, 0), Description: "doors"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status := decode[api.ClockStatusDTO](t, resp)
	assert.True(t, status.ClockedIn)

	resp = do(t, http.MethodGet, srv.URL+"/api/clock/status", nil)
	status = decode[api.ClockStatusDTO](t, resp)
	assert.True(t, status.ClockedIn)
	assert.Equal(t, "doors", status.Description)

	resp = do(t, http.MethodPost, srv.URL+"/api/clock/out",
		api.ClockOutRequest{At: rfc(2, 17, 30)})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[struct {
		Record api.RecordDTO `json:"record"`
	}](t, resp)

	assert.Equal(t, 30600, out.Record.TotalSeconds)
	assert.Equal(t, "8.5", out.Record.HalfHours)
	assert.Equal(t, "1700", out.Record.Salary)
	assert.Equal(t, 1, store.Len())
}

func TestClockIn_TwiceConflicts(t *testing.T) {
	srv, _ := newTestServer(t, wageSettings(200))

	resp := do(t, http.MethodPost, srv.URL+"/api/clock/in", api.ClockInRequest{At: rfc(2, 9, 0)})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, http.MethodPost, srv.URL+"/api/clock/in", api.ClockInRequest{At: rfc(2, 10, 0)})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestClockOut_WithoutSessionConflicts(t *testing.T) {
	srv, _ := newTestServer(t, wageSettings(200))
	resp := do(t, http.MethodPost, srv.URL+"/api/clock/out", api.ClockOutRequest{At: rfc(2, 17, 0)})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

// =============================================================================
// RECORD CRUD
// =============================================================================

func addRecord(t *testing.T, store *worklog.RecordStore, day int, wage int64) worklog.WorkRecord {
	t.Helper()
	rec, err := worklog.NewWorkRecord(
		time.Date(2026, time.March, day, 9, 0, 0, 0, time.Local),
		time.Date(2026, time.March, day, 17, 30, 0, 0, time.Local),
		"", decimal.NewFromInt(wage), worklog.WindowPolicy{Enabled: false})
	require.NoError(t, err)
	require.NoError(t, store.Add(context.Background(), rec))
	return rec
}

func TestEditRecord_SettingWagePinsIt(t *testing.T) {
	srv, store := newTestServer(t, wageSettings(200))
	rec := addRecord(t, store, 2, 200)

	hourly := "350"
	resp := do(t, http.MethodPut, srv.URL+"/api/records/"+string(rec.ID),
		api.EditRecordRequest{Hourly: &hourly})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[struct {
		Record api.RecordDTO `json:"record"`
	}](t, resp)

	assert.Equal(t, "350", out.Record.Hourly)
	assert.True(t, out.Record.ModifiedHourly)
	assert.Equal(t, "2975", out.Record.Salary) // 8.5 * 350
}

func TestEditRecord_InvalidIntervalRejected(t *testing.T) {
	srv, store := newTestServer(t, wageSettings(200))
	rec := addRecord(t, store, 2, 200)

	end := rfc(2, 8, 0) // before the 09:00 start
	resp := do(t, http.MethodPut, srv.URL+"/api/records/"+string(rec.ID),
		api.EditRecordRequest{End: &end})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	got, err := store.Get(rec.ID)
	require.NoError(t, err)
	assert.True(t, got.End.Equal(rec.End), "rejected edit must not change the record")
}

func TestEditRecord_UnknownIDIs404(t *testing.T) {
	srv, _ := newTestServer(t, wageSettings(200))
	desc := "x"
	resp := do(t, http.MethodPut, srv.URL+"/api/records/ghost",
		api.EditRecordRequest{Description: &desc})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestRemoveRecords_OutOfRangeIs404(t *testing.T) {
	srv, store := newTestServer(t, wageSettings(200))
	addRecord(t, store, 2, 200)

	resp := do(t, http.MethodDelete, srv.URL+"/api/records",
		api.RemoveRecordsRequest{Indices: []int{7}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 1, store.Len())
}

func TestMonthRecords_Totals(t *testing.T) {
	srv, store := newTestServer(t, wageSettings(200))
	addRecord(t, store, 2, 200)
	addRecord(t, store, 3, 200)

	resp := do(t, http.MethodGet, srv.URL+"/api/records/month/2026/3", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sum := decode[api.MonthSummaryDTO](t, resp)

	assert.Len(t, sum.Records, 2)
	assert.Equal(t, 2*30600, sum.TotalSeconds)
	assert.Equal(t, "3400", sum.TotalSalary)
}

// =============================================================================
// SETTINGS AND BULK APPLY
// =============================================================================

func TestApplyWage_RespectsProtectionFlag(t *testing.T) {
	srv, store := newTestServer(t, wageSettings(100))
	plain := addRecord(t, store, 2, 100)
	pinned := addRecord(t, store, 3, 500)

	// Pin the second record's wage via the edit endpoint.
	hourly := "500"
	resp := do(t, http.MethodPut, srv.URL+"/api/records/"+string(pinned.ID),
		api.EditRecordRequest{Hourly: &hourly})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, http.MethodPost, srv.URL+"/api/settings/apply",
		api.ApplyWageRequest{Scope: "all", WagePerHour: "200"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[api.ApplyWageResponse](t, resp)
	assert.Equal(t, 1, out.Changed)

	gotPlain, err := store.Get(plain.ID)
	require.NoError(t, err)
	assert.True(t, gotPlain.Hourly.Equal(decimal.NewFromInt(200)))

	gotPinned, err := store.Get(pinned.ID)
	require.NoError(t, err)
	assert.True(t, gotPinned.Hourly.Equal(decimal.NewFromInt(500)), "pinned wage overwritten")
}

func TestApplyWage_MonthScope(t *testing.T) {
	srv, store := newTestServer(t, wageSettings(100))
	addRecord(t, store, 2, 100)

	april, err := worklog.NewWorkRecord(
		time.Date(2026, time.April, 1, 9, 0, 0, 0, time.Local),
		time.Date(2026, time.April, 1, 17, 0, 0, 0, time.Local),
		"", decimal.NewFromInt(100), worklog.WindowPolicy{Enabled: false})
	require.NoError(t, err)
	require.NoError(t, store.Add(context.Background(), april))

	resp := do(t, http.MethodPost, srv.URL+"/api/settings/apply",
		api.ApplyWageRequest{Scope: "month", Year: 2026, Month: 3, WagePerHour: "250"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[api.ApplyWageResponse](t, resp)
	assert.Equal(t, 1, out.Changed)

	gotApril, err := store.Get(april.ID)
	require.NoError(t, err)
	assert.True(t, gotApril.Hourly.Equal(decimal.NewFromInt(100)), "other month touched")
}

func TestSettings_UpdateAndReadBack(t *testing.T) {
	srv, _ := newTestServer(t, config.Default())

	resp := do(t, http.MethodPut, srv.URL+"/api/settings", api.SettingsDTO{
		WagePerHour:   "225.5",
		WindowEnabled: true,
		WindowStart:   8 * 60,
		WindowEnd:     16 * 60,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, http.MethodGet, srv.URL+"/api/settings", nil)
	got := decode[api.SettingsDTO](t, resp)
	assert.Equal(t, "225.5", got.WagePerHour)
	assert.True(t, got.WindowEnabled)
	assert.Equal(t, 8*60, got.WindowStart)
	assert.Equal(t, 16*60, got.WindowEnd)
}

func TestSettings_RejectsOutOfRangeWindow(t *testing.T) {
	srv, _ := newTestServer(t, config.Default())
	resp := do(t, http.MethodPut, srv.URL+"/api/settings", api.SettingsDTO{
		WagePerHour: "100",
		WindowStart: 2000,
		WindowEnd:   100,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestApplyWage_UnknownScopeRejected(t *testing.T) {
	srv, _ := newTestServer(t, wageSettings(100))
	resp := do(t, http.MethodPost, srv.URL+"/api/settings/apply",
		api.ApplyWageRequest{Scope: "fortnight"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
