package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"quartermaster/internal/model"
	"quartermaster/internal/policy"
	"quartermaster/internal/store"
)

// AssignmentsHandler handles assignment record endpoints.
type AssignmentsHandler struct {
	DB *sql.DB
}

type createAssignmentRequest struct {
	AssetID            string `json:"asset_id" validate:"required"`
	AssignedToUserID   string `json:"assigned_to_user_id" validate:"required"`
	AssignmentDate     string `json:"assignment_date" validate:"required"`
	BaseOfAssignmentID string `json:"base_of_assignment_id" validate:"required"`
	Purpose            string `json:"purpose"`
	ExpectedReturnDate string `json:"expected_return_date"`
}

// Create handles POST /api/assignments.
func (h *AssignmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, "asset_id, assigned_to_user_id, assignment_date and base_of_assignment_id required")
		return
	}

	assignmentDate, err := parseDate(req.AssignmentDate)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	var expectedReturn *time.Time
	if req.ExpectedReturnDate != "" {
		d, err := parseDate(req.ExpectedReturnDate)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		expectedReturn = &d
	}

	claims := GetClaims(r.Context())
	if !policy.CanMutate(claims.User(), req.BaseOfAssignmentID) {
		jsonError(w, http.StatusForbidden, "assignment base is outside your authorized bases")
		return
	}

	assignment, err := store.AppendAssignment(r.Context(), h.DB, model.NewAssignment{
		AssetID:            req.AssetID,
		AssignedToUserID:   req.AssignedToUserID,
		AssignmentDate:     assignmentDate,
		BaseOfAssignmentID: req.BaseOfAssignmentID,
		Purpose:            req.Purpose,
		ExpectedReturnDate: expectedReturn,
		RecordedByUserID:   claims.UserID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("assignment recorded", "user", claims.Username,
		"asset", assignment.Asset.ModelName, "assignee", assignment.AssignedTo.Username,
		"base", assignment.BaseOfAssignment.Name)
	jsonResponse(w, http.StatusCreated, assignment)
}

// List handles GET /api/assignments.
func (h *AssignmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := recordFilter(r, GetClaims(r.Context()))
	if err != nil {
		writeFilterError(w, err)
		return
	}

	assignments, err := store.ListAssignments(r.Context(), h.DB, f)
	if err != nil {
		slog.Error("listing assignments", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list assignments")
		return
	}
	if assignments == nil {
		assignments = []model.Assignment{}
	}
	jsonResponse(w, http.StatusOK, assignments)
}
