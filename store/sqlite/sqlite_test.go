package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/timeclock/store/sqlite"
	"github.com/warp/timeclock/worklog"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func makeRecord(t *testing.T, day, startHour, endHour int) worklog.WorkRecord {
	t.Helper()
	rec, err := worklog.NewWorkRecord(
		time.Date(2026, time.March, day, startHour, 0, 0, 0, time.Local),
		time.Date(2026, time.March, day, endHour, 0, 0, 0, time.Local),
		"", decimal.NewFromInt(200), worklog.WindowPolicy{Enabled: false})
	require.NoError(t, err)
	return rec
}

// =============================================================================
// SNAPSHOT ROUND-TRIP
// =============================================================================

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	rec := makeRecord(t, 2, 9, 17)
	rec.Description = "night audit"
	rec.ModifiedHourly = true
	rec.CustomWindow = true
	rec.CustomStartMin = 22 * 60
	rec.CustomEndMin = 6 * 60

	snap := worklog.Snapshot{
		Records: []worklog.WorkRecord{rec},
		Open:    &worklog.OpenSession{Start: time.Date(2026, time.March, 3, 8, 0, 0, 0, time.Local)},
	}
	require.NoError(t, store.Save(ctx, snap))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Records, 1)

	g := got.Records[0]
	assert.Equal(t, rec.ID, g.ID)
	assert.True(t, rec.Date.Equal(g.Date))
	assert.True(t, rec.Start.Equal(g.Start))
	assert.True(t, rec.End.Equal(g.End))
	assert.Equal(t, rec.TotalSeconds, g.TotalSeconds)
	assert.True(t, rec.HalfHours.Equal(g.HalfHours))
	assert.True(t, rec.Hourly.Equal(g.Hourly))
	assert.True(t, rec.Salary.Equal(g.Salary))
	assert.True(t, g.ModifiedHourly)
	assert.Equal(t, "night audit", g.Description)
	assert.True(t, g.CustomWindow)
	assert.Equal(t, 22*60, g.CustomStartMin)
	assert.Equal(t, 6*60, g.CustomEndMin)

	require.NotNil(t, got.Open)
	assert.True(t, snap.Open.Start.Equal(got.Open.Start))
}

func TestSQLiteStore_PreservesOrdering(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	var recs []worklog.WorkRecord
	for day := 5; day >= 2; day-- {
		recs = append(recs, makeRecord(t, day, 9, 17))
	}
	require.NoError(t, store.Save(ctx, worklog.Snapshot{Records: recs}))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Records, len(recs))
	for i := range recs {
		assert.Equal(t, recs[i].ID, got.Records[i].ID, "position %d", i)
	}
}

func TestSQLiteStore_SaveReplacesWholeSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Save(ctx, worklog.Snapshot{
		Records: []worklog.WorkRecord{makeRecord(t, 2, 9, 17), makeRecord(t, 3, 9, 17)},
		Open:    &worklog.OpenSession{Start: time.Now()},
	}))

	later := worklog.Snapshot{Records: []worklog.WorkRecord{makeRecord(t, 4, 9, 17)}}
	require.NoError(t, store.Save(ctx, later))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Records, 1)
	assert.Equal(t, later.Records[0].ID, got.Records[0].ID)
	assert.Nil(t, got.Open, "cleared open session must not resurrect")
}

func TestSQLiteStore_EmptyDatabaseLoadsEmpty(t *testing.T) {
	store := newTestStore(t)
	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got.Records)
	assert.Nil(t, got.Open)
}
