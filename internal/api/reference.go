package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"quartermaster/internal/model"
	"quartermaster/internal/policy"
	"quartermaster/internal/store"
)

// ReferenceHandler serves the immutable reference collections: bases,
// equipment types and assets.
type ReferenceHandler struct {
	DB *sql.DB
}

type createBaseRequest struct {
	Name        string `json:"name" validate:"required"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

type createEquipmentTypeRequest struct {
	Name        string         `json:"name" validate:"required"`
	Category    model.Category `json:"category" validate:"required"`
	Description string         `json:"description"`
}

type createAssetRequest struct {
	EquipmentTypeID string `json:"equipment_type_id" validate:"required"`
	ModelName       string `json:"model_name" validate:"required"`
	SerialNumber    string `json:"serial_number"`
	CurrentBaseID   string `json:"current_base_id" validate:"required"`
	Quantity        int    `json:"quantity" validate:"gte=0"`
}

// ListBases handles GET /api/bases, scoped to the caller's visible bases.
func (h *ReferenceHandler) ListBases(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	bases, err := store.ListBases(r.Context(), h.DB, policy.BaseScope(claims.User()))
	if err != nil {
		slog.Error("listing bases", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list bases")
		return
	}
	if bases == nil {
		bases = []model.Base{}
	}
	jsonResponse(w, http.StatusOK, bases)
}

// CreateBase handles POST /api/bases.
func (h *ReferenceHandler) CreateBase(w http.ResponseWriter, r *http.Request) {
	var req createBaseRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	base, err := store.CreateBase(r.Context(), h.DB, req.Name, req.Location, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("base created", "user", GetClaims(r.Context()).Username, "base", base.Name)
	jsonResponse(w, http.StatusCreated, base)
}

// ListEquipmentTypes handles GET /api/equipment-types.
func (h *ReferenceHandler) ListEquipmentTypes(w http.ResponseWriter, r *http.Request) {
	category := model.Category(r.URL.Query().Get("category"))
	if category != "" && !category.Valid() {
		jsonError(w, http.StatusBadRequest, "unknown category")
		return
	}

	types, err := store.ListEquipmentTypes(r.Context(), h.DB, category)
	if err != nil {
		slog.Error("listing equipment types", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list equipment types")
		return
	}
	if types == nil {
		types = []model.EquipmentType{}
	}
	jsonResponse(w, http.StatusOK, types)
}

// CreateEquipmentType handles POST /api/equipment-types.
func (h *ReferenceHandler) CreateEquipmentType(w http.ResponseWriter, r *http.Request) {
	var req createEquipmentTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, "name and category required")
		return
	}

	et, err := store.CreateEquipmentType(r.Context(), h.DB, req.Name, req.Category, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("equipment type created", "user", GetClaims(r.Context()).Username,
		"name", et.Name, "category", et.Category)
	jsonResponse(w, http.StatusCreated, et)
}

// ListAssets handles GET /api/assets, scoped to the caller's visible bases.
func (h *ReferenceHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	assets, err := store.ListAssets(r.Context(), h.DB,
		policy.BaseScope(claims.User()), r.URL.Query().Get("equipment_type_id"))
	if err != nil {
		slog.Error("listing assets", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list assets")
		return
	}
	if assets == nil {
		assets = []model.Asset{}
	}
	jsonResponse(w, http.StatusOK, assets)
}

// CreateAsset handles POST /api/assets.
func (h *ReferenceHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var req createAssetRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, "equipment_type_id, model_name and current_base_id required")
		return
	}

	asset, err := store.CreateAsset(r.Context(), h.DB,
		req.EquipmentTypeID, req.ModelName, req.SerialNumber, req.CurrentBaseID, req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("asset created", "user", GetClaims(r.Context()).Username,
		"model", asset.ModelName, "base", asset.CurrentBase.Name)
	jsonResponse(w, http.StatusCreated, asset)
}
