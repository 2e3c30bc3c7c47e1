package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/warehouse/internal/config"
	"github.com/mamadbah2/warehouse/internal/domain/models"
)

type fakeInventory struct {
	saves     int
	backups   int
	saveErr   error
	backupErr error
}

func (f *fakeInventory) Save() error {
	f.saves++
	return f.saveErr
}

func (f *fakeInventory) Backup() (string, error) {
	if f.backupErr != nil {
		return "", f.backupErr
	}
	f.backups++
	return "backups/x.txt", nil
}

func (f *fakeInventory) AllRecords() []models.Item {
	return []models.Item{{ID: 1, Name: "Chair", Quantity: 2}}
}

type fakeSnapshotter struct{}

func (fakeSnapshotter) Snapshot(threshold int, takenAt time.Time) models.InventorySnapshot {
	return models.InventorySnapshot{TakenAt: takenAt, Totals: models.Totals{Items: 1}}
}

type fakeAlerter struct{ calls int }

func (f *fakeAlerter) NotifyLowStock(context.Context) (bool, error) {
	f.calls++
	return true, nil
}

type fakeArchive struct {
	saved []models.InventorySnapshot
	err   error
}

func (f *fakeArchive) SaveSnapshot(_ context.Context, snap models.InventorySnapshot) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, snap)
	return nil
}

type fakeExporter struct {
	exported [][]models.Item
	err      error
}

func (f *fakeExporter) ExportItems(_ context.Context, items []models.Item) error {
	if f.err != nil {
		return f.err
	}
	f.exported = append(f.exported, items)
	return nil
}

func testConfig() config.Config {
	return config.Config{
		Schedule: config.ScheduleConfig{
			Backup:   "0 2 * * *",
			LowStock: "0 8 * * *",
			Snapshot: "",
			Autosave: "*/15 * * * *",
			Timezone: "UTC",
		},
		Inventory: config.InventoryConfig{LowStockThreshold: 5},
	}
}

func TestStartRegistersEnabledJobs(t *testing.T) {
	s, err := NewScheduler(testConfig(), Deps{Inventory: &fakeInventory{}}, nil)
	require.NoError(t, err)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Equal(t, 3, s.Entries())
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.Schedule.Backup = "every tuesday"

	s, err := NewScheduler(cfg, Deps{Inventory: &fakeInventory{}}, nil)
	require.NoError(t, err)
	require.ErrorContains(t, s.Start(), "backup")
}

func TestNewSchedulerRejectsTimezone(t *testing.T) {
	cfg := testConfig()
	cfg.Schedule.Timezone = "Nowhere/Land"

	_, err := NewScheduler(cfg, Deps{}, nil)
	require.Error(t, err)
}

func TestBackupJobSavesFirst(t *testing.T) {
	inv := &fakeInventory{}
	s, err := NewScheduler(testConfig(), Deps{Inventory: inv}, nil)
	require.NoError(t, err)

	s.runBackup()
	assert.Equal(t, 1, inv.saves)
	assert.Equal(t, 1, inv.backups)

	inv.saveErr = errors.New("disk full")
	s.runBackup()
	assert.Equal(t, 1, inv.backups)
}

func TestAutosaveAndAlertJobs(t *testing.T) {
	inv := &fakeInventory{}
	alerter := &fakeAlerter{}
	s, err := NewScheduler(testConfig(), Deps{Inventory: inv, Alerts: alerter}, nil)
	require.NoError(t, err)

	s.runAutosave()
	s.runLowStockAlert()

	assert.Equal(t, 1, inv.saves)
	assert.Equal(t, 1, alerter.calls)
}

func TestSnapshotTargetsAreIndependent(t *testing.T) {
	archive := &fakeArchive{err: errors.New("mongo down")}
	exporter := &fakeExporter{}
	s, err := NewScheduler(testConfig(), Deps{
		Inventory: &fakeInventory{},
		Reporting: fakeSnapshotter{},
		Archive:   archive,
		Exporter:  exporter,
	}, nil)
	require.NoError(t, err)

	err = s.snapshot(context.Background())
	require.ErrorContains(t, err, "mongo down")
	require.Len(t, exporter.exported, 1)
	assert.Equal(t, "Chair", exporter.exported[0][0].Name)

	archive.err = nil
	fixed := time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	require.NoError(t, s.snapshot(context.Background()))
	require.Len(t, archive.saved, 1)
	assert.Equal(t, fixed, archive.saved[0].TakenAt)
}

func TestSnapshotWithoutTargets(t *testing.T) {
	s, err := NewScheduler(testConfig(), Deps{Inventory: &fakeInventory{}, Reporting: fakeSnapshotter{}}, nil)
	require.NoError(t, err)
	assert.NoError(t, s.snapshot(context.Background()))
}
