package inventory

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/domain/models"
	"github.com/mamadbah2/warehouse/internal/repository/auditlog"
	"github.com/mamadbah2/warehouse/internal/store"
)

// ErrNotConfirmed indicates a delete was requested without the confirmation signal.
var ErrNotConfirmed = errors.New("delete not confirmed")

// Persistence is the file boundary used to save and back up the store.
type Persistence interface {
	Save(s *store.Store) error
	Backup() (string, error)
}

// Service applies inventory operations and records each mutation in the audit log.
type Service struct {
	store   *store.Store
	persist Persistence
	audit   auditlog.Recorder
	logger  *zap.Logger
}

// NewService wires a new inventory service around an already loaded store.
func NewService(s *store.Store, persist Persistence, audit auditlog.Recorder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if s == nil {
		s = store.New()
	}
	return &Service{store: s, persist: persist, audit: audit, logger: logger}
}

// Store exposes the underlying store for read-only consumers such as reporting.
func (s *Service) Store() *store.Store { return s.store }

// CreateOrRestock creates a new item or adds stock to an existing one.
func (s *Service) CreateOrRestock(in models.ItemInput) (store.Result, error) {
	res, err := s.store.CreateOrRestock(in)
	if err != nil {
		return store.Result{}, err
	}

	if res.Restocked {
		s.record(models.ActionRestock, fmt.Sprintf("Added %d to ID %d", res.Added, res.Item.ID))
		s.logger.Info("item restocked", zap.Int("id", res.Item.ID), zap.Int("added", res.Added), zap.Int("quantity", res.Item.Quantity))
	} else {
		s.record(models.ActionCreate, fmt.Sprintf("Created '%s' (ID: %d)", res.Item.Name, res.Item.ID))
		s.logger.Info("item created", zap.Int("id", res.Item.ID), zap.String("name", res.Item.Name))
	}
	return res, nil
}

// Sell removes stock and returns the sale with the remaining quantity. Zero-quantity
// sales are not audited.
func (s *Service) Sell(id, quantity int) (store.Sale, error) {
	sale, err := s.store.Sell(id, quantity)
	if err != nil {
		return store.Sale{}, err
	}
	if quantity == 0 {
		return sale, nil
	}

	s.record(models.ActionSale, fmt.Sprintf("Sold %d of ID %d. Total: $%.2f", quantity, id, sale.Total))
	s.logger.Info("sale processed", zap.Int("id", id), zap.Int("quantity", quantity),
		zap.Float64("total", sale.Total), zap.Int("remaining", sale.Item.Quantity))
	return sale, nil
}

// Delete removes an item once the caller has confirmed the request.
func (s *Service) Delete(id int, confirmed bool) (string, error) {
	if !confirmed {
		if _, err := s.store.Get(id); err != nil {
			return "", err
		}
		return "", ErrNotConfirmed
	}

	name, err := s.store.Delete(id)
	if err != nil {
		return "", err
	}

	s.record(models.ActionDelete, fmt.Sprintf("Deleted %s (ID: %d)", name, id))
	s.logger.Info("item deleted", zap.Int("id", id), zap.String("name", name))
	return name, nil
}

// Get returns a single item.
func (s *Service) Get(id int) (models.Item, error) { return s.store.Get(id) }

// Find searches names and categories.
func (s *Service) Find(query string) []models.Item { return s.store.Find(query) }

// AllRecords returns every item in id order.
func (s *Service) AllRecords() []models.Item { return s.store.AllRecords() }

// Save persists the full store.
func (s *Service) Save() error {
	if s.persist == nil {
		return errors.New("no persistence configured")
	}
	return s.persist.Save(s.store)
}

// Backup copies the inventory file and audits the new backup path.
func (s *Service) Backup() (string, error) {
	if s.persist == nil {
		return "", errors.New("no persistence configured")
	}
	path, err := s.persist.Backup()
	if err != nil {
		return "", err
	}

	s.record(models.ActionBackup, fmt.Sprintf("Created backup %s", path))
	return path, nil
}

func (s *Service) record(action models.Action, details string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(action, details)
}
