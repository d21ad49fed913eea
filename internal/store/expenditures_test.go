package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"quartermaster/internal/db"
	"quartermaster/internal/model"
)

func TestExpenditureDecrementsBalance(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	refs := seedTestRefs(t, database)

	// Starting balance 8500. Expending 9000 is rejected and changes nothing,
	// expending 500 lands the balance at 8000.
	_, err := AppendExpenditure(ctx, database, model.NewExpenditure{
		AssetID:          refs.Ammo.ID,
		QuantityExpended: 9000,
		ExpenditureDate:  date(2025, time.July, 4),
		BaseID:           refs.BaseA.ID,
		ReportedByUserID: refs.User.ID,
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for overdraw, got %v", err)
	}

	asset, _ := GetAsset(ctx, database, refs.Ammo.ID)
	if asset.CurrentBalance != 8500 {
		t.Errorf("expected balance unchanged at 8500, got %d", asset.CurrentBalance)
	}

	e, err := AppendExpenditure(ctx, database, model.NewExpenditure{
		AssetID:          refs.Ammo.ID,
		QuantityExpended: 500,
		ExpenditureDate:  date(2025, time.July, 4),
		BaseID:           refs.BaseA.ID,
		Reason:           "training",
		ReportedByUserID: refs.User.ID,
	})
	if err != nil {
		t.Fatalf("AppendExpenditure: %v", err)
	}
	if e.QuantityExpended != 500 {
		t.Errorf("expected quantity 500, got %d", e.QuantityExpended)
	}

	asset, _ = GetAsset(ctx, database, refs.Ammo.ID)
	if asset.CurrentBalance != 8000 {
		t.Errorf("expected balance 8000 after expenditure, got %d", asset.CurrentBalance)
	}
}

func TestExpenditureNeverNegative(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	refs := seedTestRefs(t, database)

	// Drain the balance in chunks; every further expenditure must fail.
	for range 17 {
		_, err := AppendExpenditure(ctx, database, model.NewExpenditure{
			AssetID:          refs.Ammo.ID,
			QuantityExpended: 500,
			ExpenditureDate:  date(2025, time.July, 4),
			BaseID:           refs.BaseA.ID,
			ReportedByUserID: refs.User.ID,
		})
		if err != nil {
			t.Fatalf("AppendExpenditure: %v", err)
		}
	}

	_, err := AppendExpenditure(ctx, database, model.NewExpenditure{
		AssetID:          refs.Ammo.ID,
		QuantityExpended: 1,
		ExpenditureDate:  date(2025, time.July, 4),
		BaseID:           refs.BaseA.ID,
		ReportedByUserID: refs.User.ID,
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected validation error at zero balance, got %v", err)
	}

	asset, _ := GetAsset(ctx, database, refs.Ammo.ID)
	if asset.CurrentBalance != 0 {
		t.Errorf("expected balance 0, got %d", asset.CurrentBalance)
	}
}

func TestExpenditureNonFungibleRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	refs := seedTestRefs(t, database)

	_, err := AppendExpenditure(ctx, database, model.NewExpenditure{
		AssetID:          refs.Rifle.ID,
		QuantityExpended: 1,
		ExpenditureDate:  date(2025, time.July, 4),
		BaseID:           refs.BaseA.ID,
		ReportedByUserID: refs.User.ID,
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected validation error for non-fungible asset, got %v", err)
	}
}

func TestExpenditureValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	refs := seedTestRefs(t, database)

	valid := model.NewExpenditure{
		AssetID:          refs.Ammo.ID,
		QuantityExpended: 100,
		ExpenditureDate:  date(2025, time.July, 4),
		BaseID:           refs.BaseA.ID,
		ReportedByUserID: refs.User.ID,
	}

	tests := []struct {
		name   string
		mutate func(*model.NewExpenditure)
	}{
		{"zero quantity", func(e *model.NewExpenditure) { e.QuantityExpended = 0 }},
		{"negative quantity", func(e *model.NewExpenditure) { e.QuantityExpended = -10 }},
		{"missing date", func(e *model.NewExpenditure) { e.ExpenditureDate = time.Time{} }},
		{"unknown asset", func(e *model.NewExpenditure) { e.AssetID = "nope" }},
		{"unknown base", func(e *model.NewExpenditure) { e.BaseID = "nope" }},
		{"unknown user", func(e *model.NewExpenditure) { e.ReportedByUserID = "nope" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			_, err := AppendExpenditure(ctx, database, e)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestListExpendituresFiltered(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	refs := seedTestRefs(t, database)

	for _, d := range []time.Time{
		date(2025, time.July, 1),
		date(2025, time.July, 15),
		date(2025, time.August, 1),
	} {
		_, err := AppendExpenditure(ctx, database, model.NewExpenditure{
			AssetID:          refs.Ammo.ID,
			QuantityExpended: 100,
			ExpenditureDate:  d,
			BaseID:           refs.BaseA.ID,
			ReportedByUserID: refs.User.ID,
		})
		if err != nil {
			t.Fatalf("AppendExpenditure: %v", err)
		}
	}

	july, _ := ListExpenditures(ctx, database, RecordFilter{
		Start: date(2025, time.July, 1),
		End:   date(2025, time.July, 31),
	})
	if len(july) != 2 {
		t.Errorf("expected 2 July expenditures, got %d", len(july))
	}

	byBase, _ := ListExpenditures(ctx, database, RecordFilter{BaseID: refs.BaseB.ID})
	if len(byBase) != 0 {
		t.Errorf("expected no base B expenditures, got %d", len(byBase))
	}
}
