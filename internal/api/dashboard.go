package api

import (
	"log/slog"
	"net/http"

	"quartermaster/internal/dashboard"
	"quartermaster/internal/model"
	"quartermaster/internal/policy"
)

// DashboardHandler serves the net-movement metrics view.
type DashboardHandler struct {
	Engine *dashboard.Engine
}

// Metrics handles GET /api/dashboard. A base_id outside the caller's visible
// set is rejected before any computation.
func (h *DashboardHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var f model.Filter
	if s := q.Get("start"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		f.Start = t
	}
	if s := q.Get("end"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		f.End = t
	}
	f.BaseID = q.Get("base_id")
	f.EquipmentTypeID = q.Get("equipment_type_id")

	claims := GetClaims(r.Context())
	user := claims.User()
	if f.BaseID != "" && !policy.Sees(user, f.BaseID) {
		jsonError(w, http.StatusForbidden, "base is outside your authorized bases")
		return
	}
	// Unfiltered metrics are still bounded by the caller's visibility set,
	// the same scope the record list endpoints apply.
	f.VisibleBases = policy.BaseScope(user)

	metrics, err := h.Engine.Metrics(r.Context(), f)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Debug("dashboard computed", "user", claims.Username,
		"net_movement", metrics.NetMovement, "base", f.BaseID)
	jsonResponse(w, http.StatusOK, metrics)
}
