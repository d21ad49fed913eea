package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase records equipment received at a base. Append-only: the embedded
// Asset, Base and UserRef are value-copies taken at append time and do not
// change if reference data later changes.
type Purchase struct {
	ID                  string          `json:"id"`
	AssetID             string          `json:"asset_id"`
	Asset               Asset           `json:"asset"`
	Quantity            int             `json:"quantity"`
	UnitCost            decimal.Decimal `json:"unit_cost"`
	TotalCost           decimal.Decimal `json:"total_cost"`
	PurchaseDate        time.Time       `json:"purchase_date"`
	SupplierInfo        string          `json:"supplier_info"`
	ReceivingBaseID     string          `json:"receiving_base_id"`
	ReceivingBase       Base            `json:"receiving_base"`
	PurchaseOrderNumber string          `json:"purchase_order_number,omitempty"`
	RecordedByUserID    string          `json:"recorded_by_user_id"`
	RecordedBy          UserRef         `json:"recorded_by"`
	CreatedAt           time.Time       `json:"created_at"`
}

// NewPurchase is the append payload for a purchase: entity references by id,
// no record id or creation timestamp.
type NewPurchase struct {
	AssetID             string          `json:"asset_id"`
	Quantity            int             `json:"quantity"`
	UnitCost            decimal.Decimal `json:"unit_cost"`
	PurchaseDate        time.Time       `json:"purchase_date"`
	SupplierInfo        string          `json:"supplier_info"`
	ReceivingBaseID     string          `json:"receiving_base_id"`
	PurchaseOrderNumber string          `json:"purchase_order_number,omitempty"`
	RecordedByUserID    string          `json:"recorded_by_user_id"`
}
