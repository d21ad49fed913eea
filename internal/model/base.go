package model

// Base represents a physical installation, the unit of access-control
// scoping. Immutable reference data.
type Base struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description,omitempty"`
}
