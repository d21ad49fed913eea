package store

import (
	"context"
	"errors"
	"testing"

	"quartermaster/internal/db"
	"quartermaster/internal/model"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	created, err := CreateUser(ctx, database, "alice", "Alice Smith", "hash123", model.RoleCommander, []string{"base-1"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := GetUser(ctx, database, created.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Username != "alice" || got.Role != model.RoleCommander {
		t.Errorf("expected alice/commander, got %s/%s", got.Username, got.Role)
	}
	if len(got.AuthorizedBases) != 1 || got.AuthorizedBases[0] != "base-1" {
		t.Errorf("expected authorized bases [base-1], got %v", got.AuthorizedBases)
	}

	byName, err := GetUserByUsername(ctx, database, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if byName.ID != created.ID {
		t.Errorf("expected same user by username")
	}
}

func TestCreateUserValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	var verr *ValidationError

	_, err := CreateUser(ctx, database, "", "", "hash", model.RoleAdmin, nil)
	if !errors.As(err, &verr) {
		t.Errorf("expected validation error for empty username, got %v", err)
	}

	_, err = CreateUser(ctx, database, "bob", "", "hash", model.Role("general"), nil)
	if !errors.As(err, &verr) {
		t.Errorf("expected validation error for unknown role, got %v", err)
	}
}

func TestDuplicateUsernameRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateUser(ctx, database, "alice", "", "hash", model.RoleAdmin, nil); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := CreateUser(ctx, database, "alice", "", "hash", model.RoleAdmin, nil); err == nil {
		t.Error("expected error for duplicate username")
	}
}

func TestSoftDeleteUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	created, _ := CreateUser(ctx, database, "alice", "", "hash", model.RoleAdmin, nil)

	if err := DeleteUser(ctx, database, created.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	got, _ := GetUser(ctx, database, created.ID)
	if got == nil || got.DeletedAt == nil {
		t.Error("expected soft-deleted user to remain with deleted_at set")
	}

	users, _ := ListUsers(ctx, database)
	if len(users) != 0 {
		t.Errorf("expected deleted user excluded from listing, got %d", len(users))
	}
}

func TestUpdateUserPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	created, _ := CreateUser(ctx, database, "alice", "", "old", model.RoleAdmin, nil)

	if err := UpdateUserPassword(ctx, database, created.ID, "new"); err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}

	got, _ := GetUser(ctx, database, created.ID)
	if got.PasswordHash != "new" {
		t.Errorf("expected updated hash, got %q", got.PasswordHash)
	}
}
