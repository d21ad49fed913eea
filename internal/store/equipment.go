package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"quartermaster/internal/model"
)

// CreateEquipmentType creates a new equipment type.
func CreateEquipmentType(ctx context.Context, db *sql.DB, name string, category model.Category, description string) (*model.EquipmentType, error) {
	if name == "" {
		return nil, validationErrorf("equipment type name required")
	}
	if !category.Valid() {
		return nil, validationErrorf("unknown equipment category %q", category)
	}

	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO equipment_types (id, name, category, description) VALUES (?, ?, ?, ?)`,
		id, name, category, description,
	)
	if err != nil {
		return nil, fmt.Errorf("creating equipment type: %w", err)
	}

	return GetEquipmentType(ctx, db, id)
}

// GetEquipmentType returns an equipment type by ID.
func GetEquipmentType(ctx context.Context, db *sql.DB, id string) (*model.EquipmentType, error) {
	et := &model.EquipmentType{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, category, description FROM equipment_types WHERE id = ?`, id,
	).Scan(&et.ID, &et.Name, &et.Category, &et.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting equipment type: %w", err)
	}
	return et, nil
}

// ListEquipmentTypes returns all equipment types, optionally filtered by
// category.
func ListEquipmentTypes(ctx context.Context, db *sql.DB, category model.Category) ([]model.EquipmentType, error) {
	query := `SELECT id, name, category, description FROM equipment_types WHERE 1 = 1`
	var args []any
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing equipment types: %w", err)
	}
	defer rows.Close()

	var types []model.EquipmentType
	for rows.Next() {
		var et model.EquipmentType
		if err := rows.Scan(&et.ID, &et.Name, &et.Category, &et.Description); err != nil {
			return nil, fmt.Errorf("scanning equipment type: %w", err)
		}
		types = append(types, et)
	}
	return types, rows.Err()
}
