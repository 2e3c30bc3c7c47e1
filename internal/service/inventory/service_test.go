package inventory

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/warehouse/internal/domain/models"
	"github.com/mamadbah2/warehouse/internal/repository/flatfile"
	"github.com/mamadbah2/warehouse/internal/store"
)

type auditEntry struct {
	action  models.Action
	details string
}

type fakeAudit struct {
	entries []auditEntry
}

func (f *fakeAudit) Record(action models.Action, details string) {
	f.entries = append(f.entries, auditEntry{action, details})
}

type fakePersistence struct {
	saved     int
	backupErr error
}

func (f *fakePersistence) Save(*store.Store) error { f.saved++; return nil }

func (f *fakePersistence) Backup() (string, error) {
	if f.backupErr != nil {
		return "", f.backupErr
	}
	return "backups/inventory_backup_20261019_120000.txt", nil
}

func newTestService() (*Service, *fakeAudit, *fakePersistence) {
	audit := &fakeAudit{}
	persist := &fakePersistence{}
	return NewService(store.New(), persist, audit, nil), audit, persist
}

func TestConcreteScenario(t *testing.T) {
	svc, audit, _ := newTestService()

	_, err := svc.CreateOrRestock(models.ItemInput{ID: 1, Name: "Chair", Category: "Furniture", UnitPrice: 20.0, Quantity: 10})
	require.NoError(t, err)

	sale, err := svc.Sell(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 60.0, sale.Total)
	assert.Equal(t, 7, sale.Item.Quantity)

	item, err := svc.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 7, item.Quantity)

	assert.Equal(t, []auditEntry{
		{models.ActionCreate, "Created 'Chair' (ID: 1)"},
		{models.ActionSale, "Sold 3 of ID 1. Total: $60.00"},
	}, audit.entries)
}

func TestRestockIsAudited(t *testing.T) {
	svc, audit, _ := newTestService()
	_, err := svc.CreateOrRestock(models.ItemInput{ID: 1, Name: "Chair", Quantity: 10})
	require.NoError(t, err)

	res, err := svc.CreateOrRestock(models.ItemInput{ID: 1, Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 15, res.Item.Quantity)
	require.Len(t, audit.entries, 2)
	assert.Equal(t, auditEntry{models.ActionRestock, "Added 5 to ID 1"}, audit.entries[1])
}

func TestFailuresAreNotAudited(t *testing.T) {
	svc, audit, _ := newTestService()

	_, err := svc.CreateOrRestock(models.ItemInput{ID: 1, Name: ""})
	require.ErrorIs(t, err, store.ErrValidation)

	_, err = svc.Sell(9, 1)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.CreateOrRestock(models.ItemInput{ID: 1, Name: "Pen", Quantity: 1})
	require.NoError(t, err)
	_, err = svc.Sell(1, 2)
	require.ErrorIs(t, err, store.ErrInsufficientStock)

	_, err = svc.Sell(1, 0)
	require.NoError(t, err)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.ActionCreate, audit.entries[0].action)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	svc, audit, _ := newTestService()
	_, err := svc.CreateOrRestock(models.ItemInput{ID: 1, Name: "Chair", Quantity: 1})
	require.NoError(t, err)

	_, err = svc.Delete(1, false)
	require.ErrorIs(t, err, ErrNotConfirmed)
	_, err = svc.Get(1)
	require.NoError(t, err)

	name, err := svc.Delete(1, true)
	require.NoError(t, err)
	assert.Equal(t, "Chair", name)
	assert.Equal(t, auditEntry{models.ActionDelete, "Deleted Chair (ID: 1)"}, audit.entries[len(audit.entries)-1])

	_, err = svc.Delete(1, true)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = svc.Delete(1, false)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestBackupIsAudited(t *testing.T) {
	svc, audit, _ := newTestService()

	path, err := svc.Backup()
	require.NoError(t, err)
	assert.Equal(t, []auditEntry{{models.ActionBackup, "Created backup " + path}}, audit.entries)
}

func TestBackupFailureIsReturned(t *testing.T) {
	audit := &fakeAudit{}
	svc := NewService(store.New(), &fakePersistence{backupErr: flatfile.ErrNoSource}, audit, nil)

	_, err := svc.Backup()
	require.True(t, errors.Is(err, flatfile.ErrNoSource))
	assert.Empty(t, audit.entries)
}

func TestSaveAndReloadThroughFlatfile(t *testing.T) {
	fs := afero.NewMemMapFs()
	repo := flatfile.NewRepository(fs, flatfile.Options{Path: "inventory.txt", BackupDir: "backups"}, nil)
	svc := NewService(store.New(), repo, nil, nil)

	_, err := svc.CreateOrRestock(models.ItemInput{ID: 3, Name: "Mop", Category: "cleaning", UnitPrice: 4.25, Quantity: 8})
	require.NoError(t, err)
	require.NoError(t, svc.Save())

	loaded, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, svc.AllRecords(), loaded.AllRecords())
}
