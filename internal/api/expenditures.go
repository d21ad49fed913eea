package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"quartermaster/internal/model"
	"quartermaster/internal/policy"
	"quartermaster/internal/store"
)

// ExpendituresHandler handles expenditure record endpoints.
type ExpendituresHandler struct {
	DB *sql.DB
}

type createExpenditureRequest struct {
	AssetID          string `json:"asset_id" validate:"required"`
	QuantityExpended int    `json:"quantity_expended" validate:"gt=0"`
	ExpenditureDate  string `json:"expenditure_date" validate:"required"`
	BaseID           string `json:"base_id" validate:"required"`
	Reason           string `json:"reason" validate:"required"`
}

// Create handles POST /api/expenditures.
func (h *ExpendituresHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createExpenditureRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, "asset_id, positive quantity_expended, expenditure_date, base_id and reason required")
		return
	}

	expenditureDate, err := parseDate(req.ExpenditureDate)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	claims := GetClaims(r.Context())
	if !policy.CanMutate(claims.User(), req.BaseID) {
		jsonError(w, http.StatusForbidden, "base is outside your authorized bases")
		return
	}

	expenditure, err := store.AppendExpenditure(r.Context(), h.DB, model.NewExpenditure{
		AssetID:          req.AssetID,
		QuantityExpended: req.QuantityExpended,
		ExpenditureDate:  expenditureDate,
		BaseID:           req.BaseID,
		Reason:           req.Reason,
		ReportedByUserID: claims.UserID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("expenditure recorded", "user", claims.Username,
		"asset", expenditure.Asset.ModelName, "quantity", expenditure.QuantityExpended,
		"base", expenditure.Base.Name)
	jsonResponse(w, http.StatusCreated, expenditure)
}

// List handles GET /api/expenditures.
func (h *ExpendituresHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := recordFilter(r, GetClaims(r.Context()))
	if err != nil {
		writeFilterError(w, err)
		return
	}

	expenditures, err := store.ListExpenditures(r.Context(), h.DB, f)
	if err != nil {
		slog.Error("listing expenditures", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list expenditures")
		return
	}
	if expenditures == nil {
		expenditures = []model.Expenditure{}
	}
	jsonResponse(w, http.StatusOK, expenditures)
}
