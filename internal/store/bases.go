package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"quartermaster/internal/model"
)

// CreateBase creates a new base. Bases are immutable reference data once
// created.
func CreateBase(ctx context.Context, db *sql.DB, name, location, description string) (*model.Base, error) {
	if name == "" {
		return nil, validationErrorf("base name required")
	}

	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO bases (id, name, location, description) VALUES (?, ?, ?, ?)`,
		id, name, location, description,
	)
	if err != nil {
		return nil, fmt.Errorf("creating base: %w", err)
	}

	return GetBase(ctx, db, id)
}

// GetBase returns a base by ID.
func GetBase(ctx context.Context, db *sql.DB, id string) (*model.Base, error) {
	b := &model.Base{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, location, description FROM bases WHERE id = ?`, id,
	).Scan(&b.ID, &b.Name, &b.Location, &b.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting base: %w", err)
	}
	return b, nil
}

// ListBases returns all bases, or only those in visible when visible is
// non-nil.
func ListBases(ctx context.Context, db *sql.DB, visible []string) ([]model.Base, error) {
	query := `SELECT id, name, location, description FROM bases WHERE 1 = 1`
	var args []any
	if visible != nil {
		inClause("id", visible, &query, &args)
	}
	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing bases: %w", err)
	}
	defer rows.Close()

	var bases []model.Base
	for rows.Next() {
		var b model.Base
		if err := rows.Scan(&b.ID, &b.Name, &b.Location, &b.Description); err != nil {
			return nil, fmt.Errorf("scanning base: %w", err)
		}
		bases = append(bases, b)
	}
	return bases, rows.Err()
}
