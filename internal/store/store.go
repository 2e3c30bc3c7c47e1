// Package store holds the authoritative in-memory inventory.
//
// Every operation is a single critical section under one RWMutex so existence
// checks and the mutation that follows them cannot interleave with other callers.
// Failed operations leave the collection untouched.
package store

import (
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/mamadbah2/warehouse/internal/domain/models"
)

// Result describes the outcome of CreateOrRestock.
type Result struct {
	Item      models.Item
	Restocked bool
	Added     int
}

// Sale describes the outcome of Sell. Item carries the remaining quantity.
type Sale struct {
	Item  models.Item
	Total float64
}

// Store maps item ids to items.
type Store struct {
	mu    sync.RWMutex
	items map[int]models.Item
}

// New returns an empty store.
func New() *Store {
	return &Store{items: make(map[int]models.Item)}
}

// FromItems builds a store from previously persisted items. A later item with a
// duplicate id replaces the earlier one.
func FromItems(items []models.Item) *Store {
	s := New()
	for _, item := range items {
		s.items[item.ID] = item
	}
	return s
}

// CreateOrRestock adds quantity to an existing item, or creates a new one when the
// id is unknown.
func (s *Store) CreateOrRestock(in models.ItemInput) (Result, error) {
	if in.Quantity < 0 {
		return Result{}, validationError("quantity must not be negative, got %d", in.Quantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.items[in.ID]; ok {
		existing.Quantity += in.Quantity
		s.items[in.ID] = existing
		return Result{Item: existing, Restocked: true, Added: in.Quantity}, nil
	}

	name := strings.TrimSpace(in.Name)
	switch {
	case in.ID <= 0:
		return Result{}, validationError("id must be positive, got %d", in.ID)
	case name == "":
		return Result{}, validationError("name must not be empty")
	case strings.IndexFunc(name, unicode.IsControl) >= 0:
		return Result{}, validationError("name must not contain control characters, got %q", name)
	case math.IsNaN(in.UnitPrice) || math.IsInf(in.UnitPrice, 0):
		return Result{}, validationError("unit price must be a finite number, got %g", in.UnitPrice)
	case in.UnitPrice < 0:
		return Result{}, validationError("unit price must not be negative, got %g", in.UnitPrice)
	}

	item := models.Item{
		ID:        in.ID,
		Name:      name,
		Category:  models.NormalizeCategory(in.Category),
		UnitPrice: in.UnitPrice,
		Quantity:  in.Quantity,
	}
	s.items[item.ID] = item

	return Result{Item: item, Added: in.Quantity}, nil
}

// Sell removes quantity units from the item and returns the sale total along with
// the item as it stands afterwards. Selling zero units is a successful no-op.
func (s *Store) Sell(id, quantity int) (Sale, error) {
	if quantity < 0 {
		return Sale{}, validationError("quantity must not be negative, got %d", quantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return Sale{}, notFound(id)
	}
	if quantity == 0 {
		return Sale{Item: item}, nil
	}
	if quantity > item.Quantity {
		return Sale{}, &InsufficientStockError{ID: id, Requested: quantity, Available: item.Quantity}
	}

	item.Quantity -= quantity
	s.items[id] = item

	return Sale{Item: item, Total: float64(quantity) * item.UnitPrice}, nil
}

// Delete removes the item and returns its name.
func (s *Store) Delete(id int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return "", notFound(id)
	}
	delete(s.items, id)

	return item.Name, nil
}

// Get returns a copy of a single item.
func (s *Store) Get(id int) (models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return models.Item{}, notFound(id)
	}
	return item, nil
}

// Find returns items whose name or category contains query, ignoring case, in id
// order. An empty query matches every item.
func (s *Store) Find(query string) []models.Item {
	needle := strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]models.Item, 0)
	for _, item := range s.items {
		if strings.Contains(strings.ToLower(item.Name), needle) ||
			strings.Contains(strings.ToLower(string(item.Category)), needle) {
			matches = append(matches, item)
		}
	}
	sortByID(matches)
	return matches
}

// AllRecords returns every item in id order.
func (s *Store) AllRecords() []models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.Item, 0, len(s.items))
	for _, item := range s.items {
		all = append(all, item)
	}
	sortByID(all)
	return all
}

// Len reports the number of items held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func sortByID(items []models.Item) {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
}
