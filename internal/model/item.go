package model

import "time"

// Item is a product definition (not a physical quantity).
type Item struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Barcode     string    `json:"barcode,omitempty"`
	DefaultUnit string    `json:"default_unit"`
	Category    string    `json:"category"`
	Vegetarian  bool      `json:"vegetarian"`
	GlutenFree  bool      `json:"gluten_free"`
	Usual       bool      `json:"usual"`
	ImageURL    string    `json:"image_url,omitempty"`
	ImageMime   string    `json:"image_mime,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Item defaults for entries created without explicit values.
const (
	DefaultUnit     = "pcs"
	DefaultCategory = "General"
	UnknownProduct  = "Unknown Product"
)

// Tags returns the short dietary labels shown next to an item.
func (i Item) Tags() []string {
	tags := []string{}
	if i.Vegetarian {
		tags = append(tags, "Veg")
	}
	if i.GlutenFree {
		tags = append(tags, "GF")
	}
	return tags
}
