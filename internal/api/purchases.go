package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"quartermaster/internal/model"
	"quartermaster/internal/policy"
	"quartermaster/internal/store"
)

// PurchasesHandler handles purchase record endpoints.
type PurchasesHandler struct {
	DB *sql.DB
}

type createPurchaseRequest struct {
	AssetID             string          `json:"asset_id" validate:"required"`
	Quantity            int             `json:"quantity" validate:"gt=0"`
	UnitCost            decimal.Decimal `json:"unit_cost"`
	PurchaseDate        string          `json:"purchase_date" validate:"required"`
	SupplierInfo        string          `json:"supplier_info"`
	ReceivingBaseID     string          `json:"receiving_base_id" validate:"required"`
	PurchaseOrderNumber string          `json:"purchase_order_number"`
}

// Create handles POST /api/purchases.
func (h *PurchasesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPurchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, "asset_id, positive quantity, purchase_date and receiving_base_id required")
		return
	}

	purchaseDate, err := parseDate(req.PurchaseDate)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	claims := GetClaims(r.Context())
	if !policy.CanMutate(claims.User(), req.ReceivingBaseID) {
		jsonError(w, http.StatusForbidden, "receiving base is outside your authorized bases")
		return
	}

	purchase, err := store.AppendPurchase(r.Context(), h.DB, model.NewPurchase{
		AssetID:             req.AssetID,
		Quantity:            req.Quantity,
		UnitCost:            req.UnitCost,
		PurchaseDate:        purchaseDate,
		SupplierInfo:        req.SupplierInfo,
		ReceivingBaseID:     req.ReceivingBaseID,
		PurchaseOrderNumber: req.PurchaseOrderNumber,
		RecordedByUserID:    claims.UserID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("purchase recorded", "user", claims.Username,
		"asset", purchase.Asset.ModelName, "quantity", purchase.Quantity,
		"base", purchase.ReceivingBase.Name)
	jsonResponse(w, http.StatusCreated, purchase)
}

// List handles GET /api/purchases.
func (h *PurchasesHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := recordFilter(r, GetClaims(r.Context()))
	if err != nil {
		writeFilterError(w, err)
		return
	}

	purchases, err := store.ListPurchases(r.Context(), h.DB, f)
	if err != nil {
		slog.Error("listing purchases", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list purchases")
		return
	}
	if purchases == nil {
		purchases = []model.Purchase{}
	}
	jsonResponse(w, http.StatusOK, purchases)
}
