package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"quartermaster/internal/model"
	"quartermaster/internal/policy"
	"quartermaster/internal/store"
)

// TransfersHandler handles transfer record endpoints.
type TransfersHandler struct {
	DB *sql.DB
}

type createTransferRequest struct {
	AssetID           string `json:"asset_id" validate:"required"`
	Quantity          int    `json:"quantity" validate:"gt=0"`
	SourceBaseID      string `json:"source_base_id" validate:"required"`
	DestinationBaseID string `json:"destination_base_id" validate:"required"`
	TransferDate      string `json:"transfer_date" validate:"required"`
	Reason            string `json:"reason"`
}

// Create handles POST /api/transfers. The caller must be authorized for the
// source base.
func (h *TransfersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTransferRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, "asset_id, positive quantity, source_base_id, destination_base_id and transfer_date required")
		return
	}

	transferDate, err := parseDate(req.TransferDate)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	claims := GetClaims(r.Context())
	if !policy.CanMutate(claims.User(), req.SourceBaseID) {
		jsonError(w, http.StatusForbidden, "source base is outside your authorized bases")
		return
	}

	transfer, err := store.AppendTransfer(r.Context(), h.DB, model.NewTransfer{
		AssetID:           req.AssetID,
		Quantity:          req.Quantity,
		SourceBaseID:      req.SourceBaseID,
		DestinationBaseID: req.DestinationBaseID,
		TransferDate:      transferDate,
		Reason:            req.Reason,
		InitiatedByUserID: claims.UserID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("transfer recorded", "user", claims.Username,
		"asset", transfer.Asset.ModelName, "quantity", transfer.Quantity,
		"from", transfer.SourceBase.Name, "to", transfer.DestinationBase.Name)
	jsonResponse(w, http.StatusCreated, transfer)
}

// List handles GET /api/transfers. A transfer is visible when either side is
// in the caller's base set.
func (h *TransfersHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := recordFilter(r, GetClaims(r.Context()))
	if err != nil {
		writeFilterError(w, err)
		return
	}

	transfers, err := store.ListTransfers(r.Context(), h.DB, f, store.TransferAny)
	if err != nil {
		slog.Error("listing transfers", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list transfers")
		return
	}
	if transfers == nil {
		transfers = []model.Transfer{}
	}
	jsonResponse(w, http.StatusOK, transfers)
}
