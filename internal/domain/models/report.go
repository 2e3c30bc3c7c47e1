package models

import "time"

// Totals aggregates the whole inventory.
type Totals struct {
	Value float64 `json:"value" yaml:"value" bson:"value"`
	Units int     `json:"units" yaml:"units" bson:"units"`
	Items int     `json:"items" yaml:"items" bson:"items"`
}

// PriceExtremes names the most and least expensive items by unit price.
type PriceExtremes struct {
	MostExpensive string `json:"most_expensive" yaml:"most_expensive"`
	Cheapest      string `json:"cheapest" yaml:"cheapest"`
}

// InventorySnapshot represents a point-in-time copy of the inventory stored in MongoDB.
type InventorySnapshot struct {
	TakenAt   time.Time `bson:"taken_at" json:"taken_at"`
	Totals    Totals    `bson:"totals" json:"totals"`
	LowStock  []int     `bson:"low_stock" json:"low_stock"`
	Items     []Item    `bson:"items" json:"items"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
