package model

import "time"

// TransferStatus is a closed set of transfer states. The progression is
// forward-only: initiated -> in_transit -> received, with cancelled reachable
// from the two non-terminal states.
type TransferStatus string

// Transfer statuses.
const (
	TransferInitiated TransferStatus = "initiated"
	TransferInTransit TransferStatus = "in_transit"
	TransferReceived  TransferStatus = "received"
	TransferCancelled TransferStatus = "cancelled"
)

// Valid reports whether s is a known transfer status.
func (s TransferStatus) Valid() bool {
	switch s {
	case TransferInitiated, TransferInTransit, TransferReceived, TransferCancelled:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s TransferStatus) Terminal() bool {
	return s == TransferReceived || s == TransferCancelled
}

// Transfer records an asset movement between two distinct bases. Append-only.
type Transfer struct {
	ID                string         `json:"id"`
	AssetID           string         `json:"asset_id"`
	Asset             Asset          `json:"asset"`
	Quantity          int            `json:"quantity"`
	SourceBaseID      string         `json:"source_base_id"`
	SourceBase        Base           `json:"source_base"`
	DestinationBaseID string         `json:"destination_base_id"`
	DestinationBase   Base           `json:"destination_base"`
	TransferDate      time.Time      `json:"transfer_date"`
	Reason            string         `json:"reason,omitempty"`
	Status            TransferStatus `json:"status"`
	InitiatedByUserID string         `json:"initiated_by_user_id"`
	InitiatedBy       UserRef        `json:"initiated_by"`
	ReceivedByUserID  string         `json:"received_by_user_id,omitempty"`
	CompletedAt       *time.Time     `json:"completed_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

// NewTransfer is the append payload for a transfer. Transfers are always
// created in the initiated state.
type NewTransfer struct {
	AssetID           string    `json:"asset_id"`
	Quantity          int       `json:"quantity"`
	SourceBaseID      string    `json:"source_base_id"`
	DestinationBaseID string    `json:"destination_base_id"`
	TransferDate      time.Time `json:"transfer_date"`
	Reason            string    `json:"reason,omitempty"`
	InitiatedByUserID string    `json:"initiated_by_user_id"`
}
