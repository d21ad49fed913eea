package store

import (
	"context"
	"errors"
	"testing"

	"quartermaster/internal/db"
	"quartermaster/internal/model"
)

func TestCreateAssetFungibility(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	base, _ := CreateBase(ctx, database, "Base Alpha", "", "")
	vehicle, _ := CreateEquipmentType(ctx, database, "Truck", model.CategoryGround, "")
	fuel, _ := CreateEquipmentType(ctx, database, "Diesel", model.CategoryConsumable, "")

	truck, err := CreateAsset(ctx, database, vehicle.ID, "M35", "TRK-01", base.ID, 1)
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	if truck.IsFungible {
		t.Error("expected ground asset to be non-fungible")
	}
	if truck.Status != model.AssetOperational {
		t.Errorf("expected operational status, got %s", truck.Status)
	}

	diesel, err := CreateAsset(ctx, database, fuel.ID, "Diesel", "", base.ID, 2000)
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	if !diesel.IsFungible || diesel.CurrentBalance != 2000 {
		t.Errorf("expected fungible asset with balance 2000, got fungible=%v balance=%d",
			diesel.IsFungible, diesel.CurrentBalance)
	}

	// Fungible assets carry no serial number.
	_, err = CreateAsset(ctx, database, fuel.ID, "Diesel", "SN-1", base.ID, 100)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected validation error for serialized fungible asset, got %v", err)
	}
}

func TestListAssetsScoped(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	refs := seedTestRefs(t, database)

	all, err := ListAssets(ctx, database, nil, "")
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 assets, got %d", len(all))
	}

	scoped, _ := ListAssets(ctx, database, []string{refs.BaseB.ID}, "")
	if len(scoped) != 0 {
		t.Errorf("expected no assets at base B, got %d", len(scoped))
	}

	byType, _ := ListAssets(ctx, database, nil, refs.Rifle.EquipmentTypeID)
	if len(byType) != 1 || byType[0].ID != refs.Rifle.ID {
		t.Errorf("expected only the rifle, got %v", byType)
	}

	// Joined reference data comes back resolved.
	if all[0].EquipmentType.Name == "" || all[0].CurrentBase.Name == "" {
		t.Error("expected equipment type and base to be resolved")
	}
}
