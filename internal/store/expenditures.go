package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"quartermaster/internal/model"
)

// AppendExpenditure validates and appends an expenditure record, decrementing
// the asset's balance in the same transaction. Only fungible assets can be
// expended, and never below a zero balance; on any validation failure nothing
// is applied.
func AppendExpenditure(ctx context.Context, db *sql.DB, e model.NewExpenditure) (*model.Expenditure, error) {
	if e.QuantityExpended <= 0 {
		return nil, validationErrorf("expended quantity must be positive")
	}
	if e.ExpenditureDate.IsZero() {
		return nil, validationErrorf("expenditure date required")
	}

	asset, base, user, err := resolveRecordRefs(ctx, db, e.AssetID, e.BaseID, e.ReportedByUserID)
	if err != nil {
		return nil, err
	}

	assetSnap, err := marshalSnapshot(asset)
	if err != nil {
		return nil, err
	}
	baseSnap, err := marshalSnapshot(base)
	if err != nil {
		return nil, err
	}
	userSnap, err := marshalSnapshot(user.Ref())
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Re-check the balance against the asset row inside the transaction so a
	// sequence of appends can never drive the balance negative.
	var fungible bool
	var balance int
	err = tx.QueryRowContext(ctx,
		`SELECT is_fungible, current_balance FROM assets WHERE id = ?`, e.AssetID,
	).Scan(&fungible, &balance)
	if err == sql.ErrNoRows {
		return nil, validationErrorf("asset %q not found", e.AssetID)
	}
	if err != nil {
		return nil, fmt.Errorf("checking asset balance: %w", err)
	}
	if !fungible {
		return nil, validationErrorf("non-fungible assets cannot be expended")
	}
	if e.QuantityExpended > balance {
		return nil, validationErrorf("insufficient balance: have %d, need %d", balance, e.QuantityExpended)
	}

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenditures (id, asset_id, equipment_type_id, base_id, quantity_expended,
		                           expenditure_date, reason, reported_by_user_id,
		                           asset_snapshot, base_snapshot, user_snapshot)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, e.AssetID, asset.EquipmentTypeID, e.BaseID, e.QuantityExpended,
		e.ExpenditureDate, e.Reason, e.ReportedByUserID,
		assetSnap, baseSnap, userSnap,
	)
	if err != nil {
		return nil, fmt.Errorf("appending expenditure: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE assets SET current_balance = current_balance - ?, last_updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		e.QuantityExpended, e.AssetID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating asset balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing expenditure: %w", err)
	}

	return GetExpenditure(ctx, db, id)
}

const expenditureColumns = `id, asset_id, base_id, quantity_expended, expenditure_date, reason,
	        reported_by_user_id, asset_snapshot, base_snapshot, user_snapshot, created_at`

func scanExpenditure(row interface{ Scan(...any) error }) (*model.Expenditure, error) {
	e := &model.Expenditure{}
	var assetSnap, baseSnap, userSnap string
	err := row.Scan(&e.ID, &e.AssetID, &e.BaseID, &e.QuantityExpended, &e.ExpenditureDate, &e.Reason,
		&e.ReportedByUserID, &assetSnap, &baseSnap, &userSnap, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := unmarshalSnapshot(assetSnap, &e.Asset); err != nil {
		return nil, err
	}
	if err := unmarshalSnapshot(baseSnap, &e.Base); err != nil {
		return nil, err
	}
	if err := unmarshalSnapshot(userSnap, &e.ReportedBy); err != nil {
		return nil, err
	}
	return e, nil
}

// GetExpenditure returns an expenditure by ID.
func GetExpenditure(ctx context.Context, db *sql.DB, id string) (*model.Expenditure, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+expenditureColumns+` FROM expenditures WHERE id = ?`, id)
	e, err := scanExpenditure(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting expenditure: %w", err)
	}
	return e, nil
}

// ListExpenditures returns expenditures matching the filter in insertion
// order.
func ListExpenditures(ctx context.Context, db *sql.DB, f RecordFilter) ([]model.Expenditure, error) {
	query := `SELECT ` + expenditureColumns + ` FROM expenditures WHERE 1 = 1`
	var args []any

	f.dateClause("expenditure_date", &query, &args)
	if f.BaseID != "" {
		query += ` AND base_id = ?`
		args = append(args, f.BaseID)
	}
	if f.EquipmentTypeID != "" {
		query += ` AND equipment_type_id = ?`
		args = append(args, f.EquipmentTypeID)
	}
	if f.VisibleBases != nil {
		inClause("base_id", f.VisibleBases, &query, &args)
	}
	query += ` ORDER BY created_at, id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenditures: %w", err)
	}
	defer rows.Close()

	var expenditures []model.Expenditure
	for rows.Next() {
		e, err := scanExpenditure(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expenditure: %w", err)
		}
		expenditures = append(expenditures, *e)
	}
	return expenditures, rows.Err()
}
