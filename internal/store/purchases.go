package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quartermaster/internal/model"
)

// AppendPurchase validates and appends a purchase record. The referenced
// asset, receiving base and recording user are resolved and embedded as
// value-copies; total cost is derived as quantity times unit cost.
func AppendPurchase(ctx context.Context, db *sql.DB, p model.NewPurchase) (*model.Purchase, error) {
	if p.Quantity <= 0 {
		return nil, validationErrorf("purchase quantity must be positive")
	}
	if !p.UnitCost.IsPositive() {
		return nil, validationErrorf("unit cost must be positive")
	}
	if p.PurchaseDate.IsZero() {
		return nil, validationErrorf("purchase date required")
	}

	asset, base, user, err := resolveRecordRefs(ctx, db, p.AssetID, p.ReceivingBaseID, p.RecordedByUserID)
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

	totalCost := p.UnitCost.Mul(decimal.NewFromInt(int64(p.Quantity)))

	id := uuid.NewString()
	_, err = db.ExecContext(ctx,
		`INSERT INTO purchases (id, asset_id, equipment_type_id, receiving_base_id, quantity,
		                        unit_cost, total_cost, purchase_date, supplier_info,
		                        purchase_order_number, recorded_by_user_id,
		                        asset_snapshot, base_snapshot, user_snapshot)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.AssetID, asset.EquipmentTypeID, p.ReceivingBaseID, p.Quantity,
		p.UnitCost, totalCost, p.PurchaseDate, p.SupplierInfo,
		nullable(p.PurchaseOrderNumber), p.RecordedByUserID,
		assetSnap, baseSnap, userSnap,
	)
	if err != nil {
		return nil, fmt.Errorf("appending purchase: %w", err)
	}

	return GetPurchase(ctx, db, id)
}

const purchaseColumns = `id, asset_id, receiving_base_id, quantity, unit_cost, total_cost,
	        purchase_date, supplier_info, purchase_order_number, recorded_by_user_id,
	        asset_snapshot, base_snapshot, user_snapshot, created_at`

func scanPurchase(row interface{ Scan(...any) error }) (*model.Purchase, error) {
	p := &model.Purchase{}
	var poNumber sql.NullString
	var assetSnap, baseSnap, userSnap string
	err := row.Scan(&p.ID, &p.AssetID, &p.ReceivingBaseID, &p.Quantity, &p.UnitCost, &p.TotalCost,
		&p.PurchaseDate, &p.SupplierInfo, &poNumber, &p.RecordedByUserID,
		&assetSnap, &baseSnap, &userSnap, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.PurchaseOrderNumber = poNumber.String
	if err := unmarshalSnapshot(assetSnap, &p.Asset); err != nil {
		return nil, err
	}
	if err := unmarshalSnapshot(baseSnap, &p.ReceivingBase); err != nil {
		return nil, err
	}
	if err := unmarshalSnapshot(userSnap, &p.RecordedBy); err != nil {
		return nil, err
	}
	return p, nil
}

// GetPurchase returns a purchase by ID.
func GetPurchase(ctx context.Context, db *sql.DB, id string) (*model.Purchase, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+purchaseColumns+` FROM purchases WHERE id = ?`, id)
	p, err := scanPurchase(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting purchase: %w", err)
	}
	return p, nil
}

// ListPurchases returns purchases matching the filter in insertion order.
func ListPurchases(ctx context.Context, db *sql.DB, f RecordFilter) ([]model.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE 1 = 1`
	var args []any

	f.dateClause("purchase_date", &query, &args)
	if f.BaseID != "" {
		query += ` AND receiving_base_id = ?`
		args = append(args, f.BaseID)
	}
	if f.EquipmentTypeID != "" {
		query += ` AND equipment_type_id = ?`
		args = append(args, f.EquipmentTypeID)
	}
	if f.VisibleBases != nil {
		inClause("receiving_base_id", f.VisibleBases, &query, &args)
	}
	query += ` ORDER BY created_at, id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing purchases: %w", err)
	}
	defer rows.Close()

	var purchases []model.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning purchase: %w", err)
		}
		purchases = append(purchases, *p)
	}
	return purchases, rows.Err()
}

// resolveRecordRefs loads the asset, base and user every ledger append
// references, failing with a validation error on any missing entity.
func resolveRecordRefs(ctx context.Context, db *sql.DB, assetID, baseID, userID string) (*model.Asset, *model.Base, *model.User, error) {
	asset, err := GetAsset(ctx, db, assetID)
	if err != nil {
		return nil, nil, nil, err
	}
	if asset == nil {
		return nil, nil, nil, validationErrorf("asset %q not found", assetID)
	}

	base, err := GetBase(ctx, db, baseID)
	if err != nil {
		return nil, nil, nil, err
	}
	if base == nil {
		return nil, nil, nil, validationErrorf("base %q not found", baseID)
	}

	user, err := GetUser(ctx, db, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	if user == nil {
		return nil, nil, nil, validationErrorf("user %q not found", userID)
	}

	return asset, base, user, nil
}
