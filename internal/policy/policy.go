// Package policy decides which base-scoped data a user may see and which
// mutating actions a user may perform. All functions are pure predicates
// over immutable inputs and fail closed for unknown roles.
package policy

import (
	"fmt"
	"slices"

	"quartermaster/internal/model"
)

// AuthorizationError reports an attempt to view or mutate data outside the
// actor's authorized base set, or to write with a read-only role. It is
// surfaced before any store mutation is attempted.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return e.Reason
}

// Errorf builds an AuthorizationError.
func Errorf(format string, args ...any) error {
	return &AuthorizationError{Reason: fmt.Sprintf(format, args...)}
}

// VisibleBases returns the bases the user may see: all of them for an admin,
// otherwise exactly the user's authorized set.
func VisibleBases(u *model.User, bases []model.Base) []model.Base {
	switch u.Role {
	case model.RoleAdmin:
		return bases
	case model.RoleCommander, model.RoleLogistics:
		visible := make([]model.Base, 0, len(u.AuthorizedBases))
		for _, b := range bases {
			if slices.Contains(u.AuthorizedBases, b.ID) {
				visible = append(visible, b)
			}
		}
		return visible
	}
	return nil
}

// BaseScope returns the base-id restriction to apply to record queries on the
// user's behalf: nil for an admin (unrestricted), otherwise the authorized
// set. An unknown role sees nothing.
func BaseScope(u *model.User) []string {
	switch u.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleCommander, model.RoleLogistics:
		if u.AuthorizedBases == nil {
			return []string{}
		}
		return u.AuthorizedBases
	}
	return []string{}
}

// Sees reports whether the user may view data scoped to baseID.
func Sees(u *model.User, baseID string) bool {
	return u.AuthorizedFor(baseID) && u.Role.Valid()
}

// CanMutate reports whether the user may record data against baseID.
func CanMutate(u *model.User, baseID string) bool {
	return CanWrite(u) && u.AuthorizedFor(baseID)
}

// CanWrite reports whether the role may create purchase, transfer,
// assignment or expenditure records. Base commanders hold a read-only
// oversight role.
func CanWrite(u *model.User) bool {
	switch u.Role {
	case model.RoleAdmin, model.RoleLogistics:
		return true
	case model.RoleCommander:
		return false
	}
	return false
}
