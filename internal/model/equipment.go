package model

// Category is a closed set of equipment categories.
type Category string

// Equipment categories.
const (
	CategoryGround        Category = "ground"
	CategoryAir           Category = "air"
	CategoryConsumable    Category = "consumable"
	CategoryHeavyWeaponry Category = "heavy_weaponry"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryGround, CategoryAir, CategoryConsumable, CategoryHeavyWeaponry:
		return true
	}
	return false
}

// Fungible reports whether assets of this category are tracked by balance
// rather than by serialized unit. Only consumables are fungible.
func (c Category) Fungible() bool {
	return c == CategoryConsumable
}

// EquipmentType represents a kind of equipment. Immutable reference data.
type EquipmentType struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Description string   `json:"description,omitempty"`
}
