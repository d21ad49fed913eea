package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"quartermaster/internal/model"
)

// TransferDirection selects which side of a transfer a base filter matches.
type TransferDirection int

// Directions. Inbound matches the destination base, Outbound the source
// base, Any either side. With no base filter the direction is irrelevant and
// the whole date/equipment-filtered set is returned.
const (
	TransferAny TransferDirection = iota
	TransferInbound
	TransferOutbound
)

// AppendTransfer validates and appends a transfer record in the initiated
// state. Source and destination must be distinct existing bases.
func AppendTransfer(ctx context.Context, db *sql.DB, t model.NewTransfer) (*model.Transfer, error) {
	if t.Quantity <= 0 {
		return nil, validationErrorf("transfer quantity must be positive")
	}
	if t.SourceBaseID == t.DestinationBaseID {
		return nil, validationErrorf("source and destination base must differ")
	}
	if t.TransferDate.IsZero() {
		return nil, validationErrorf("transfer date required")
	}

	asset, source, user, err := resolveRecordRefs(ctx, db, t.AssetID, t.SourceBaseID, t.InitiatedByUserID)
	if err != nil {
		return nil, err
	}

	destination, err := GetBase(ctx, db, t.DestinationBaseID)
	if err != nil {
		return nil, err
	}
	if destination == nil {
		return nil, validationErrorf("base %q not found", t.DestinationBaseID)
	}

	assetSnap, err := marshalSnapshot(asset)
	if err != nil {
		return nil, err
	}
	sourceSnap, err := marshalSnapshot(source)
	if err != nil {
		return nil, err
	}
	destSnap, err := marshalSnapshot(destination)
	if err != nil {
		return nil, err
	}
	userSnap, err := marshalSnapshot(user.Ref())
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err = db.ExecContext(ctx,
		`INSERT INTO transfers (id, asset_id, equipment_type_id, source_base_id, destination_base_id,
		                        quantity, status, transfer_date, reason, initiated_by_user_id,
		                        asset_snapshot, source_snapshot, destination_snapshot, user_snapshot)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, t.AssetID, asset.EquipmentTypeID, t.SourceBaseID, t.DestinationBaseID,
		t.Quantity, model.TransferInitiated, t.TransferDate, t.Reason, t.InitiatedByUserID,
		assetSnap, sourceSnap, destSnap, userSnap,
	)
	if err != nil {
		return nil, fmt.Errorf("appending transfer: %w", err)
	}

	return GetTransfer(ctx, db, id)
}

const transferColumns = `id, asset_id, source_base_id, destination_base_id, quantity, status,
	        transfer_date, reason, initiated_by_user_id, received_by_user_id, completed_at,
	        asset_snapshot, source_snapshot, destination_snapshot, user_snapshot, created_at`

func scanTransfer(row interface{ Scan(...any) error }) (*model.Transfer, error) {
	t := &model.Transfer{}
	var receivedBy sql.NullString
	var assetSnap, sourceSnap, destSnap, userSnap string
	err := row.Scan(&t.ID, &t.AssetID, &t.SourceBaseID, &t.DestinationBaseID, &t.Quantity, &t.Status,
		&t.TransferDate, &t.Reason, &t.InitiatedByUserID, &receivedBy, &t.CompletedAt,
		&assetSnap, &sourceSnap, &destSnap, &userSnap, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.ReceivedByUserID = receivedBy.String
	if err := unmarshalSnapshot(assetSnap, &t.Asset); err != nil {
		return nil, err
	}
	if err := unmarshalSnapshot(sourceSnap, &t.SourceBase); err != nil {
		return nil, err
	}
	if err := unmarshalSnapshot(destSnap, &t.DestinationBase); err != nil {
		return nil, err
	}
	if err := unmarshalSnapshot(userSnap, &t.InitiatedBy); err != nil {
		return nil, err
	}
	return t, nil
}

// GetTransfer returns a transfer by ID.
func GetTransfer(ctx context.Context, db *sql.DB, id string) (*model.Transfer, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE id = ?`, id)
	t, err := scanTransfer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting transfer: %w", err)
	}
	return t, nil
}

// ListTransfers returns transfers matching the filter in insertion order.
// The direction controls which side f.BaseID matches; status is not a filter
// dimension, all states are treated uniformly.
func ListTransfers(ctx context.Context, db *sql.DB, f RecordFilter, direction TransferDirection) ([]model.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE 1 = 1`
	var args []any

	f.dateClause("transfer_date", &query, &args)
	if f.BaseID != "" {
		switch direction {
		case TransferInbound:
			query += ` AND destination_base_id = ?`
			args = append(args, f.BaseID)
		case TransferOutbound:
			query += ` AND source_base_id = ?`
			args = append(args, f.BaseID)
		case TransferAny:
			query += ` AND (source_base_id = ? OR destination_base_id = ?)`
			args = append(args, f.BaseID, f.BaseID)
		}
	}
	if f.EquipmentTypeID != "" {
		query += ` AND equipment_type_id = ?`
		args = append(args, f.EquipmentTypeID)
	}
	if f.VisibleBases != nil {
		// A transfer is visible if either side is in the caller's base set.
		if len(f.VisibleBases) == 0 {
			query += ` AND 1 = 0`
		} else {
			placeholders := strings.Repeat("?, ", len(f.VisibleBases)-1) + "?"
			query += ` AND (source_base_id IN (` + placeholders + `) OR destination_base_id IN (` + placeholders + `))`
			for range 2 {
				for _, id := range f.VisibleBases {
					args = append(args, id)
				}
			}
		}
	}
	query += ` ORDER BY created_at, id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transfers: %w", err)
	}
	defer rows.Close()

	var transfers []model.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transfer: %w", err)
		}
		transfers = append(transfers, *t)
	}
	return transfers, rows.Err()
}
