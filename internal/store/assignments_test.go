package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"quartermaster/internal/db"
	"quartermaster/internal/model"
)

func TestAssignmentBasic(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	refs := seedTestRefs(t, database)

	soldier, err := CreateUser(ctx, database, "soldier", "PFC Smith", "hash", model.RoleLogistics, nil)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	returnDate := date(2025, time.September, 1)
	a, err := AppendAssignment(ctx, database, model.NewAssignment{
		AssetID:            refs.Rifle.ID,
		AssignedToUserID:   soldier.ID,
		AssignmentDate:     date(2025, time.August, 1),
		BaseOfAssignmentID: refs.BaseA.ID,
		Purpose:            "field exercise",
		ExpectedReturnDate: &returnDate,
		RecordedByUserID:   refs.User.ID,
	})
	if err != nil {
		t.Fatalf("AppendAssignment: %v", err)
	}

	if !a.IsActive {
		t.Error("expected new assignment to be active")
	}
	if a.AssignedTo.Username != "soldier" || a.RecordedBy.Username != "officer" {
		t.Errorf("expected user snapshots, got %q / %q", a.AssignedTo.Username, a.RecordedBy.Username)
	}
	if a.ExpectedReturnDate == nil {
		t.Error("expected return date to round-trip")
	}
}

func TestAssignmentFungibleRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	refs := seedTestRefs(t, database)

	_, err := AppendAssignment(ctx, database, model.NewAssignment{
		AssetID:            refs.Ammo.ID,
		AssignedToUserID:   refs.User.ID,
		AssignmentDate:     date(2025, time.August, 1),
		BaseOfAssignmentID: refs.BaseA.ID,
		RecordedByUserID:   refs.User.ID,
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected validation error for fungible asset, got %v", err)
	}
}

func TestAssignmentValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	refs := seedTestRefs(t, database)

	valid := model.NewAssignment{
		AssetID:            refs.Rifle.ID,
		AssignedToUserID:   refs.User.ID,
		AssignmentDate:     date(2025, time.August, 1),
		BaseOfAssignmentID: refs.BaseA.ID,
		RecordedByUserID:   refs.User.ID,
	}

	tests := []struct {
		name   string
		mutate func(*model.NewAssignment)
	}{
		{"missing date", func(a *model.NewAssignment) { a.AssignmentDate = time.Time{} }},
		{"unknown asset", func(a *model.NewAssignment) { a.AssetID = "nope" }},
		{"unknown base", func(a *model.NewAssignment) { a.BaseOfAssignmentID = "nope" }},
		{"unknown assignee", func(a *model.NewAssignment) { a.AssignedToUserID = "nope" }},
		{"unknown recorder", func(a *model.NewAssignment) { a.RecordedByUserID = "nope" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid
			tt.mutate(&a)
			_, err := AppendAssignment(ctx, database, a)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestListAssignmentsFiltered(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	refs := seedTestRefs(t, database)

	for i := 0; i < 3; i++ {
		_, err := AppendAssignment(ctx, database, model.NewAssignment{
			AssetID:            refs.Rifle.ID,
			AssignedToUserID:   refs.User.ID,
			AssignmentDate:     date(2025, time.August, 1+i),
			BaseOfAssignmentID: refs.BaseA.ID,
			RecordedByUserID:   refs.User.ID,
		})
		if err != nil {
			t.Fatalf("AppendAssignment: %v", err)
		}
	}

	windowed, _ := ListAssignments(ctx, database, RecordFilter{
		Start: date(2025, time.August, 1),
		End:   date(2025, time.August, 2),
	})
	if len(windowed) != 2 {
		t.Errorf("expected 2 assignments in window, got %d", len(windowed))
	}

	scoped, _ := ListAssignments(ctx, database, RecordFilter{VisibleBases: []string{refs.BaseB.ID}})
	if len(scoped) != 0 {
		t.Errorf("expected no assignments visible from base B only, got %d", len(scoped))
	}
}
