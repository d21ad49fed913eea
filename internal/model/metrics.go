package model

import "time"

// Filter selects ledger records for dashboard aggregation. The date window is
// inclusive on both ends, compared by calendar date. BaseID and
// EquipmentTypeID are optional narrowing dimensions. VisibleBases is the
// caller's visibility set, derived server-side and never read from a request:
// nil means unrestricted, an empty slice matches nothing.
type Filter struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	BaseID          string    `json:"base_id,omitempty"`
	EquipmentTypeID string    `json:"equipment_type_id,omitempty"`
	VisibleBases    []string  `json:"-"`
}

// NetMovementBreakdown itemizes the records behind each net-movement
// aggregate so every summary number can be drilled into. The totals always
// equal the quantity sums of their respective lists.
type NetMovementBreakdown struct {
	Purchases         []Purchase `json:"purchases"`
	TransfersIn       []Transfer `json:"transfers_in"`
	TransfersOut      []Transfer `json:"transfers_out"`
	TotalPurchases    int        `json:"total_purchases"`
	TotalTransfersIn  int        `json:"total_transfers_in"`
	TotalTransfersOut int        `json:"total_transfers_out"`
	NetMovement       int        `json:"net_movement"`
}

// DashboardMetrics is the role-scoped summary view for a filter window.
type DashboardMetrics struct {
	OpeningBalance       int                  `json:"opening_balance"`
	ClosingBalance       int                  `json:"closing_balance"`
	NetMovement          int                  `json:"net_movement"`
	AssignedAssets       int                  `json:"assigned_assets"`
	ExpendedAssets       int                  `json:"expended_assets"`
	NetMovementBreakdown NetMovementBreakdown `json:"net_movement_breakdown"`
}
