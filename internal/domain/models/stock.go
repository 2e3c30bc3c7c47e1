package models

import "strings"

// Category classifies an inventory item.
type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryFurniture   Category = "Furniture"
	CategoryStationery  Category = "Stationery"
	CategoryCleaning    Category = "Cleaning"
	CategoryGeneral     Category = "General"
)

// AllowedCategories lists every category an item may carry.
var AllowedCategories = []Category{
	CategoryElectronics,
	CategoryFurniture,
	CategoryStationery,
	CategoryCleaning,
	CategoryGeneral,
}

// NormalizeCategory capitalizes the raw value and maps it onto the allowed set.
// Unknown values fall back to General.
func NormalizeCategory(raw string) Category {
	value := strings.TrimSpace(raw)
	if value == "" {
		return CategoryGeneral
	}

	value = strings.ToUpper(value[:1]) + strings.ToLower(value[1:])
	for _, c := range AllowedCategories {
		if string(c) == value {
			return c
		}
	}
	return CategoryGeneral
}

// ParseCategories normalizes a list of category names, dropping blanks and
// duplicates while keeping the first-seen order.
func ParseCategories(raw []string) []Category {
	var out []Category
	seen := make(map[Category]bool, len(raw))
	for _, part := range raw {
		if strings.TrimSpace(part) == "" {
			continue
		}
		c := NormalizeCategory(part)
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// Item is a single warehouse inventory entry.
type Item struct {
	ID        int      `json:"id" yaml:"id" bson:"id"`
	Name      string   `json:"name" yaml:"name" bson:"name"`
	Category  Category `json:"category" yaml:"category" bson:"category"`
	UnitPrice float64  `json:"unit_price" yaml:"unit_price" bson:"unit_price"`
	Quantity  int      `json:"quantity" yaml:"quantity" bson:"quantity"`
}

// Value is the stock value held for the item.
func (i Item) Value() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// ItemInput carries the fields of a create-or-restock request. Name, Category and
// UnitPrice only matter when the item does not exist yet.
type ItemInput struct {
	ID        int     `json:"id" binding:"required"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}
