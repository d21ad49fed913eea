package model

import "time"

// AssetStatus is a closed set of asset conditions.
type AssetStatus string

// Asset statuses.
const (
	AssetOperational    AssetStatus = "operational"
	AssetMaintenance    AssetStatus = "maintenance"
	AssetDamaged        AssetStatus = "damaged"
	AssetDecommissioned AssetStatus = "decommissioned"
)

// Valid reports whether s is a known asset status.
func (s AssetStatus) Valid() bool {
	switch s {
	case AssetOperational, AssetMaintenance, AssetDamaged, AssetDecommissioned:
		return true
	}
	return false
}

// Asset represents a tracked unit or stock of equipment. Fungible assets
// (consumables) are tracked by CurrentBalance; non-fungible assets are
// serialized units that can be assigned to personnel. The two sets are
// disjoint: IsFungible holds exactly when the equipment category is
// consumable.
type Asset struct {
	ID              string        `json:"id"`
	EquipmentTypeID string        `json:"equipment_type_id"`
	EquipmentType   EquipmentType `json:"equipment_type"`
	ModelName       string        `json:"model_name"`
	SerialNumber    string        `json:"serial_number,omitempty"`
	CurrentBaseID   string        `json:"current_base_id"`
	CurrentBase     Base          `json:"current_base"`
	Quantity        int           `json:"quantity"`
	Status          AssetStatus   `json:"status"`
	IsFungible      bool          `json:"is_fungible"`
	CurrentBalance  int           `json:"current_balance"`
	LastUpdatedAt   time.Time     `json:"last_updated_at"`
}
