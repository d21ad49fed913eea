package model

import "time"

// Assignment records a non-fungible asset being issued to personnel.
// IsActive stays true until the asset is returned.
type Assignment struct {
	ID                 string     `json:"id"`
	AssetID            string     `json:"asset_id"`
	Asset              Asset      `json:"asset"`
	AssignedToUserID   string     `json:"assigned_to_user_id"`
	AssignedTo         UserRef    `json:"assigned_to"`
	AssignmentDate     time.Time  `json:"assignment_date"`
	BaseOfAssignmentID string     `json:"base_of_assignment_id"`
	BaseOfAssignment   Base       `json:"base_of_assignment"`
	Purpose            string     `json:"purpose,omitempty"`
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty"`
	ReturnedDate       *time.Time `json:"returned_date,omitempty"`
	IsActive           bool       `json:"is_active"`
	RecordedByUserID   string     `json:"recorded_by_user_id"`
	RecordedBy         UserRef    `json:"recorded_by"`
	CreatedAt          time.Time  `json:"created_at"`
}

// NewAssignment is the append payload for an assignment. The referenced asset
// must be non-fungible.
type NewAssignment struct {
	AssetID            string     `json:"asset_id"`
	AssignedToUserID   string     `json:"assigned_to_user_id"`
	AssignmentDate     time.Time  `json:"assignment_date"`
	BaseOfAssignmentID string     `json:"base_of_assignment_id"`
	Purpose            string     `json:"purpose,omitempty"`
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty"`
	RecordedByUserID   string     `json:"recorded_by_user_id"`
}
