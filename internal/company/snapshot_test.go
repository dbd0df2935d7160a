package company

import (
	"os"
	"path/filepath"
	"testing"

	"airline_ops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populatedCompany(t *testing.T) *Company {
	t.Helper()
	c := newTestCompany(t)
	p, _ := c.CreatePassenger("Ana", date(1990, 5, 14), "engineer", 12)
	a, _ := c.CreateAirplane("A320", 6, 30, date(2024, 2, 1))
	e, _ := c.CreateAirplane("E190", 4, 45, date(2024, 3, 1))
	c.CreateTechnician("T1", []string{"A320", "E190"})
	cf, _ := c.CreateFlight(a.ID, models.FlightCommercial, "OPO", "LIS", 5, 1, 100)
	rf, _ := c.CreateFlight(e.ID, models.FlightRented, "LIS", "FNC", 9, 2, 500)
	c.Book(p.ID, cf.ID, "1B")
	c.Book(p.ID, rf.ID, "")
	_, err := c.PerformMaintenance(a.ID)
	require.NoError(t, err)
	return c
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	c := populatedCompany(t)
	snap := c.Snapshot()

	restored := New(Options{})
	require.NoError(t, restored.Restore(snap))

	assert.Equal(t, snap, restored.Snapshot())
	assert.Equal(t, c.Clock(), restored.Clock())
	assert.Equal(t, c.Technicians(), restored.Technicians())
	assert.Equal(t, c.MaintenanceSessions(0), restored.MaintenanceSessions(0))
}

func TestRestoreRebuildsIndexes(t *testing.T) {
	c := populatedCompany(t)
	restored := New(Options{})
	require.NoError(t, restored.Restore(c.Snapshot()))

	// the maintenance heap must come back in due order
	next, ok := restored.NextDueMaintenance()
	require.True(t, ok)
	want, _ := c.NextDueMaintenance()
	assert.Equal(t, want.ID, next.ID)

	// restored ids keep climbing past the snapshot's highest
	p, err := restored.CreatePassenger("Eva", date(1992, 7, 3), "", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, p.ID)
}

func TestRestoreRejectsInvalidClock(t *testing.T) {
	c := newTestCompany(t)
	err := c.Restore(models.CompanySnapshot{})
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestSaveAndLoadState(t *testing.T) {
	c := populatedCompany(t)
	path := filepath.Join(t.TempDir(), "nested", "company.json")
	require.NoError(t, c.SaveState(path))

	loaded := New(Options{})
	require.NoError(t, loaded.LoadState(path))
	assert.Equal(t, c.Snapshot(), loaded.Snapshot())

	// atomic write leaves no temp file behind
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestLoadStateMissingFile(t *testing.T) {
	c := newTestCompany(t)
	assert.Error(t, c.LoadState(filepath.Join(t.TempDir(), "absent.json")))
}

func TestAutoSaveWritesConfiguredPath(t *testing.T) {
	c := populatedCompany(t)
	path := filepath.Join(t.TempDir(), "company.json")

	c.AutoSave() // no path configured: nothing written
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	c.SetSavePath(path)
	c.AutoSave()
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestSeedDemoPopulates(t *testing.T) {
	c := newTestCompany(t)
	c.SeedDemo()

	assert.Len(t, c.Fleet(), 2)
	assert.Len(t, c.Technicians(), 2)
	assert.Len(t, c.ActiveFlights(), 2)
	assert.Len(t, c.Passengers(), 1)
}
