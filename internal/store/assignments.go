package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"quartermaster/internal/model"
)

// AppendAssignment validates and appends an assignment record. Only
// non-fungible assets can be assigned to personnel; consumables are
// expendable, never assignable.
func AppendAssignment(ctx context.Context, db *sql.DB, a model.NewAssignment) (*model.Assignment, error) {
	if a.AssignmentDate.IsZero() {
		return nil, validationErrorf("assignment date required")
	}

	asset, base, user, err := resolveRecordRefs(ctx, db, a.AssetID, a.BaseOfAssignmentID, a.RecordedByUserID)
	if err != nil {
		return nil, err
	}
	if asset.IsFungible {
		return nil, validationErrorf("fungible assets cannot be assigned")
	}

	assignee, err := GetUser(ctx, db, a.AssignedToUserID)
	if err != nil {
		return nil, err
	}
	if assignee == nil {
		return nil, validationErrorf("user %q not found", a.AssignedToUserID)
	}

	assetSnap, err := marshalSnapshot(asset)
	if err != nil {
		return nil, err
	}
	baseSnap, err := marshalSnapshot(base)
	if err != nil {
		return nil, err
	}
	assigneeSnap, err := marshalSnapshot(assignee.Ref())
	if err != nil {
		return nil, err
	}
	userSnap, err := marshalSnapshot(user.Ref())
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err = db.ExecContext(ctx,
		`INSERT INTO assignments (id, asset_id, equipment_type_id, assigned_to_user_id,
		                          base_of_assignment_id, assignment_date, purpose,
		                          expected_return_date, is_active, recorded_by_user_id,
		                          asset_snapshot, base_snapshot, assignee_snapshot, user_snapshot)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?, ?, ?)`,
		id, a.AssetID, asset.EquipmentTypeID, a.AssignedToUserID,
		a.BaseOfAssignmentID, a.AssignmentDate, a.Purpose,
		a.ExpectedReturnDate, a.RecordedByUserID,
		assetSnap, baseSnap, assigneeSnap, userSnap,
	)
	if err != nil {
		return nil, fmt.Errorf("appending assignment: %w", err)
	}

	return GetAssignment(ctx, db, id)
}

const assignmentColumns = `id, asset_id, assigned_to_user_id, base_of_assignment_id, assignment_date,
	        purpose, expected_return_date, returned_date, is_active, recorded_by_user_id,
	        asset_snapshot, base_snapshot, assignee_snapshot, user_snapshot, created_at`

func scanAssignment(row interface{ Scan(...any) error }) (*model.Assignment, error) {
	a := &model.Assignment{}
	var assetSnap, baseSnap, assigneeSnap, userSnap string
	err := row.Scan(&a.ID, &a.AssetID, &a.AssignedToUserID, &a.BaseOfAssignmentID, &a.AssignmentDate,
		&a.Purpose, &a.ExpectedReturnDate, &a.ReturnedDate, &a.IsActive, &a.RecordedByUserID,
		&assetSnap, &baseSnap, &assigneeSnap, &userSnap, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := unmarshalSnapshot(assetSnap, &a.Asset); err != nil {
		return nil, err
	}
	if err := unmarshalSnapshot(baseSnap, &a.BaseOfAssignment); err != nil {
		return nil, err
	}
	if err := unmarshalSnapshot(assigneeSnap, &a.AssignedTo); err != nil {
		return nil, err
	}
	if err := unmarshalSnapshot(userSnap, &a.RecordedBy); err != nil {
		return nil, err
	}
	return a, nil
}

// GetAssignment returns an assignment by ID.
func GetAssignment(ctx context.Context, db *sql.DB, id string) (*model.Assignment, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE id = ?`, id)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting assignment: %w", err)
	}
	return a, nil
}

// ListAssignments returns assignments matching the filter in insertion
// order.
func ListAssignments(ctx context.Context, db *sql.DB, f RecordFilter) ([]model.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE 1 = 1`
	var args []any

	f.dateClause("assignment_date", &query, &args)
	if f.BaseID != "" {
		query += ` AND base_of_assignment_id = ?`
		args = append(args, f.BaseID)
	}
	if f.EquipmentTypeID != "" {
		query += ` AND equipment_type_id = ?`
		args = append(args, f.EquipmentTypeID)
	}
	if f.VisibleBases != nil {
		inClause("base_of_assignment_id", f.VisibleBases, &query, &args)
	}
	query += ` ORDER BY created_at, id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning assignment: %w", err)
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}
