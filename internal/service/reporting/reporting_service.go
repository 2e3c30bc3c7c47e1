package reporting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/domain/models"
)

// RecordSource supplies the items reports are computed over, in a stable order.
type RecordSource interface {
	AllRecords() []models.Item
}

// Service exposes read-only analytics over the inventory.
type Service struct {
	source RecordSource
	logger *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(source RecordSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, logger: logger}
}

// Totals sums stock value and units. An empty inventory yields the zero value.
func (s *Service) Totals() models.Totals {
	var totals models.Totals
	for _, item := range s.source.AllRecords() {
		totals.Value += item.Value()
		totals.Units += item.Quantity
		totals.Items++
	}
	return totals
}

// PriceExtremes names the most and least expensive items. Items are visited in id
// order and ties keep the first item seen. ok is false when the inventory is empty.
func (s *Service) PriceExtremes() (extremes models.PriceExtremes, ok bool) {
	items := s.source.AllRecords()
	if len(items) == 0 {
		return models.PriceExtremes{}, false
	}

	most, least := items[0], items[0]
	for _, item := range items[1:] {
		if item.UnitPrice > most.UnitPrice {
			most = item
		}
		if item.UnitPrice < least.UnitPrice {
			least = item
		}
	}
	return models.PriceExtremes{MostExpensive: most.Name, Cheapest: least.Name}, true
}

// CategoryHealth returns the required categories no item currently belongs to,
// sorted by name. An empty result means every required category is covered.
func (s *Service) CategoryHealth(required []models.Category) []models.Category {
	present := make(map[models.Category]struct{})
	for _, item := range s.source.AllRecords() {
		present[item.Category] = struct{}{}
	}

	missing := make([]models.Category, 0)
	seen := make(map[models.Category]struct{})
	for _, c := range required {
		if _, ok := present[c]; ok {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		missing = append(missing, c)
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

// LowStock returns items with fewer than threshold units, in id order.
func (s *Service) LowStock(threshold int) []models.Item {
	low := make([]models.Item, 0)
	for _, item := range s.source.AllRecords() {
		if item.Quantity < threshold {
			low = append(low, item)
		}
	}
	return low
}

// Snapshot captures the inventory, its totals and the ids of low stock items at takenAt.
func (s *Service) Snapshot(threshold int, takenAt time.Time) models.InventorySnapshot {
	items := s.source.AllRecords()

	snapshot := models.InventorySnapshot{
		TakenAt:   takenAt.UTC(),
		Items:     items,
		LowStock:  make([]int, 0),
		CreatedAt: time.Now().UTC(),
	}
	for _, item := range items {
		snapshot.Totals.Value += item.Value()
		snapshot.Totals.Units += item.Quantity
		snapshot.Totals.Items++
		if item.Quantity < threshold {
			snapshot.LowStock = append(snapshot.LowStock, item.ID)
		}
	}
	return snapshot
}

// Summary renders the analytics, category check and low stock report as text.
func (s *Service) Summary(threshold int, required []models.Category) string {
	var b strings.Builder

	totals := s.Totals()
	if totals.Items == 0 {
		b.WriteString("No data available.\n")
	} else {
		fmt.Fprintf(&b, "Total asset value: $%.2f\n", totals.Value)
		fmt.Fprintf(&b, "Total units: %d across %d items\n", totals.Units, totals.Items)
		if extremes, ok := s.PriceExtremes(); ok {
			fmt.Fprintf(&b, "Most expensive: %s\n", extremes.MostExpensive)
			fmt.Fprintf(&b, "Cheapest: %s\n", extremes.Cheapest)
		}
	}

	b.WriteString(FormatCategoryHealth(s.CategoryHealth(required)))
	b.WriteString("\n")
	b.WriteString(FormatLowStock(threshold, s.LowStock(threshold)))

	s.logger.Debug("summary generated", zap.Int("items", totals.Items), zap.Int("threshold", threshold))
	return strings.TrimRight(b.String(), "\n")
}

// FormatCategoryHealth renders the category check result as a single line.
func FormatCategoryHealth(missing []models.Category) string {
	if len(missing) == 0 {
		return "Healthy: all categories represented."
	}
	names := make([]string, len(missing))
	for i, c := range missing {
		names[i] = string(c)
	}
	return "ALERT: missing categories: " + strings.Join(names, ", ")
}

// FormatLowStock renders the low stock report.
func FormatLowStock(threshold int, low []models.Item) string {
	if len(low) == 0 {
		return "All items well stocked."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "WARNING: low stock (<%d):", threshold)
	for _, item := range low {
		fmt.Fprintf(&b, "\n- %s (ID: %d, Qty: %d)", item.Name, item.ID, item.Quantity)
	}
	return b.String()
}
