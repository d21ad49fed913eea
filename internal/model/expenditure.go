package model

import "time"

// Expenditure records consumption of a fungible asset's balance.
type Expenditure struct {
	ID               string    `json:"id"`
	AssetID          string    `json:"asset_id"`
	Asset            Asset     `json:"asset"`
	QuantityExpended int       `json:"quantity_expended"`
	ExpenditureDate  time.Time `json:"expenditure_date"`
	BaseID           string    `json:"base_id"`
	Base             Base      `json:"base"`
	Reason           string    `json:"reason,omitempty"`
	ReportedByUserID string    `json:"reported_by_user_id"`
	ReportedBy       UserRef   `json:"reported_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewExpenditure is the append payload for an expenditure. The referenced
// asset must be fungible and hold at least QuantityExpended balance.
type NewExpenditure struct {
	AssetID          string    `json:"asset_id"`
	QuantityExpended int       `json:"quantity_expended"`
	ExpenditureDate  time.Time `json:"expenditure_date"`
	BaseID           string    `json:"base_id"`
	Reason           string    `json:"reason,omitempty"`
	ReportedByUserID string    `json:"reported_by_user_id"`
}
