package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"quartermaster/internal/model"
)

// CreateAsset creates a new asset. Fungibility is derived from the equipment
// category: consumables are fungible and tracked by balance, everything else
// is a serialized unit. For non-fungible assets the balance equals the
// quantity.
func CreateAsset(ctx context.Context, db *sql.DB, equipmentTypeID, modelName, serialNumber, baseID string, quantity int) (*model.Asset, error) {
	if quantity < 0 {
		return nil, validationErrorf("asset quantity must not be negative")
	}

	et, err := GetEquipmentType(ctx, db, equipmentTypeID)
	if err != nil {
		return nil, err
	}
	if et == nil {
		return nil, validationErrorf("equipment type %q not found", equipmentTypeID)
	}

	base, err := GetBase(ctx, db, baseID)
	if err != nil {
		return nil, err
	}
	if base == nil {
		return nil, validationErrorf("base %q not found", baseID)
	}

	fungible := et.Category.Fungible()
	if fungible && serialNumber != "" {
		return nil, validationErrorf("fungible assets are not serialized")
	}

	id := uuid.NewString()
	_, err = db.ExecContext(ctx,
		`INSERT INTO assets (id, equipment_type_id, model_name, serial_number, current_base_id, quantity, status, is_fungible, current_balance)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, equipmentTypeID, modelName, nullable(serialNumber), baseID, quantity,
		model.AssetOperational, fungible, quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("creating asset: %w", err)
	}

	return GetAsset(ctx, db, id)
}

const assetColumns = `a.id, a.equipment_type_id, a.model_name, a.serial_number, a.current_base_id,
	        a.quantity, a.status, a.is_fungible, a.current_balance, a.last_updated_at,
	        et.name, et.category, et.description,
	        b.name, b.location, b.description`

const assetJoins = ` FROM assets a
	 JOIN equipment_types et ON et.id = a.equipment_type_id
	 JOIN bases b ON b.id = a.current_base_id`

func scanAsset(row interface{ Scan(...any) error }) (*model.Asset, error) {
	a := &model.Asset{}
	var serial sql.NullString
	err := row.Scan(&a.ID, &a.EquipmentTypeID, &a.ModelName, &serial, &a.CurrentBaseID,
		&a.Quantity, &a.Status, &a.IsFungible, &a.CurrentBalance, &a.LastUpdatedAt,
		&a.EquipmentType.Name, &a.EquipmentType.Category, &a.EquipmentType.Description,
		&a.CurrentBase.Name, &a.CurrentBase.Location, &a.CurrentBase.Description)
	if err != nil {
		return nil, err
	}
	a.SerialNumber = serial.String
	a.EquipmentType.ID = a.EquipmentTypeID
	a.CurrentBase.ID = a.CurrentBaseID
	return a, nil
}

// GetAsset returns an asset by ID with its equipment type and current base
// resolved.
func GetAsset(ctx context.Context, db *sql.DB, id string) (*model.Asset, error) {
	row := db.QueryRowContext(ctx, `SELECT `+assetColumns+assetJoins+` WHERE a.id = ?`, id)
	asset, err := scanAsset(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting asset: %w", err)
	}
	return asset, nil
}

// ListAssets returns assets, optionally restricted to a visibility set of
// base ids and/or a single equipment type.
func ListAssets(ctx context.Context, db *sql.DB, visible []string, equipmentTypeID string) ([]model.Asset, error) {
	query := `SELECT ` + assetColumns + assetJoins + ` WHERE 1 = 1`
	var args []any
	if visible != nil {
		inClause("a.current_base_id", visible, &query, &args)
	}
	if equipmentTypeID != "" {
		query += ` AND a.equipment_type_id = ?`
		args = append(args, equipmentTypeID)
	}
	query += ` ORDER BY a.model_name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	defer rows.Close()

	var assets []model.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning asset: %w", err)
		}
		assets = append(assets, *a)
	}
	return assets, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
