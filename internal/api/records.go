package api

import (
	"errors"
	"fmt"
	"net/http"

	"quartermaster/internal/auth"
	"quartermaster/internal/policy"
	"quartermaster/internal/store"
)

// writeFilterError maps recordFilter failures: authorization problems are
// forbidden, everything else is a bad request.
func writeFilterError(w http.ResponseWriter, err error) {
	var ae *policy.AuthorizationError
	if errors.As(err, &ae) {
		jsonError(w, http.StatusForbidden, ae.Reason)
		return
	}
	jsonError(w, http.StatusBadRequest, err.Error())
}

// recordFilter builds the store filter for a ledger list request: optional
// inclusive date window, optional base and equipment type narrowing, plus the
// caller's visibility scope. A base filter outside the caller's visible set
// is an authorization failure.
func recordFilter(r *http.Request, claims *auth.Claims) (store.RecordFilter, error) {
	var f store.RecordFilter

	q := r.URL.Query()
	start, end := q.Get("start"), q.Get("end")
	if (start == "") != (end == "") {
		return f, fmt.Errorf("start and end must be given together")
	}
	if start != "" {
		var err error
		if f.Start, err = parseDate(start); err != nil {
			return f, err
		}
		if f.End, err = parseDate(end); err != nil {
			return f, err
		}
	}

	user := claims.User()
	if baseID := q.Get("base_id"); baseID != "" {
		if !policy.Sees(user, baseID) {
			return f, policy.Errorf("base %q is outside your authorized bases", baseID)
		}
		f.BaseID = baseID
	}
	f.EquipmentTypeID = q.Get("equipment_type_id")
	f.VisibleBases = policy.BaseScope(user)

	return f, nil
}
