package policy

import (
	"testing"

	"quartermaster/internal/model"
)

func TestCanWrite(t *testing.T) {
	tests := []struct {
		role model.Role
		want bool
	}{
		{model.RoleAdmin, true},
		{model.RoleLogistics, true},
		{model.RoleCommander, false},
		{model.Role("general"), false},
		{model.Role(""), false},
	}
	for _, tt := range tests {
		u := &model.User{Role: tt.role}
		if got := CanWrite(u); got != tt.want {
			t.Errorf("CanWrite(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestCanMutate(t *testing.T) {
	logistics := &model.User{Role: model.RoleLogistics, AuthorizedBases: []string{"base-1"}}
	if !CanMutate(logistics, "base-1") {
		t.Error("expected logistics to mutate its authorized base")
	}
	if CanMutate(logistics, "base-2") {
		t.Error("expected logistics denied outside its base set")
	}

	commander := &model.User{Role: model.RoleCommander, AuthorizedBases: []string{"base-1"}}
	if CanMutate(commander, "base-1") {
		t.Error("expected commander denied even on its own base")
	}

	admin := &model.User{Role: model.RoleAdmin}
	if !CanMutate(admin, "base-2") {
		t.Error("expected admin to mutate any base")
	}
}

func TestSees(t *testing.T) {
	commander := &model.User{Role: model.RoleCommander, AuthorizedBases: []string{"base-1"}}
	if !Sees(commander, "base-1") {
		t.Error("expected commander to see its base")
	}
	if Sees(commander, "base-2") {
		t.Error("expected commander not to see other bases")
	}

	admin := &model.User{Role: model.RoleAdmin}
	if !Sees(admin, "base-2") {
		t.Error("expected admin to see every base")
	}

	unknown := &model.User{Role: model.Role("general"), AuthorizedBases: []string{"base-1"}}
	if Sees(unknown, "base-1") {
		t.Error("expected unknown role to see nothing")
	}
}

func TestVisibleBases(t *testing.T) {
	bases := []model.Base{{ID: "base-1"}, {ID: "base-2"}, {ID: "base-3"}}

	admin := &model.User{Role: model.RoleAdmin}
	if got := VisibleBases(admin, bases); len(got) != 3 {
		t.Errorf("expected admin to see all 3 bases, got %d", len(got))
	}

	commander := &model.User{Role: model.RoleCommander, AuthorizedBases: []string{"base-2"}}
	got := VisibleBases(commander, bases)
	if len(got) != 1 || got[0].ID != "base-2" {
		t.Errorf("expected commander to see only base-2, got %v", got)
	}

	unknown := &model.User{Role: model.Role("general")}
	if got := VisibleBases(unknown, bases); len(got) != 0 {
		t.Errorf("expected unknown role to see nothing, got %v", got)
	}
}

func TestBaseScope(t *testing.T) {
	admin := &model.User{Role: model.RoleAdmin}
	if BaseScope(admin) != nil {
		t.Error("expected nil scope for admin")
	}

	logistics := &model.User{Role: model.RoleLogistics, AuthorizedBases: []string{"base-1"}}
	if got := BaseScope(logistics); len(got) != 1 || got[0] != "base-1" {
		t.Errorf("expected [base-1], got %v", got)
	}

	// A scoped role with no bases, and an unknown role, both get an empty
	// non-nil scope that matches nothing.
	bare := &model.User{Role: model.RoleCommander}
	if got := BaseScope(bare); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil scope, got %v", got)
	}
	unknown := &model.User{Role: model.Role("general"), AuthorizedBases: []string{"base-1"}}
	if got := BaseScope(unknown); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil scope for unknown role, got %v", got)
	}
}
