package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"quartermaster/internal/auth"
	"quartermaster/internal/dashboard"
	"quartermaster/internal/db"
	"quartermaster/internal/model"
	"quartermaster/internal/store"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, *sql.DB, string) {
	t.Helper()
	database := db.NewTestDB(t)
	router := NewRouter(database, testJWTSecret, dashboard.NewEngine(database))
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	// Create admin user.
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	store.CreateUser(ctx, database, "admin", "Administrator", string(hash), model.RoleAdmin, nil)

	// Get token.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "password"})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp map[string]string
	json.NewDecoder(resp.Body).Decode(&loginResp)
	token := loginResp["token"]
	if token == "" {
		t.Fatal("empty token from login")
	}

	return server, database, token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func doJSON(t *testing.T, req *http.Request, wantStatus int, out any) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d", req.Method, req.URL.Path, wantStatus, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
	}
}

func TestLoginEndpoint(t *testing.T) {
	server, _, _ := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestUnauthenticatedAccess(t *testing.T) {
	server, _, _ := setupTestServer(t)

	resp, _ := http.Get(server.URL + "/api/assets")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRecordAndDashboardFlow(t *testing.T) {
	server, _, token := setupTestServer(t)

	// Set up reference data through the API.
	var base model.Base
	req, _ := authRequest("POST", server.URL+"/api/bases", token, map[string]string{
		"name": "Base Alpha", "location": "North",
	})
	doJSON(t, req, http.StatusCreated, &base)

	var et model.EquipmentType
	req, _ = authRequest("POST", server.URL+"/api/equipment-types", token, map[string]string{
		"name": "Rifle", "category": "ground",
	})
	doJSON(t, req, http.StatusCreated, &et)

	var asset model.Asset
	req, _ = authRequest("POST", server.URL+"/api/assets", token, map[string]any{
		"equipment_type_id": et.ID, "model_name": "M4", "serial_number": "SN-1",
		"current_base_id": base.ID, "quantity": 1,
	})
	doJSON(t, req, http.StatusCreated, &asset)

	// Record a purchase.
	var purchase model.Purchase
	req, _ = authRequest("POST", server.URL+"/api/purchases", token, map[string]any{
		"asset_id": asset.ID, "quantity": 20, "unit_cost": "1200",
		"purchase_date": "2025-03-15", "receiving_base_id": base.ID,
		"supplier_info": "Colt Defense",
	})
	doJSON(t, req, http.StatusCreated, &purchase)
	if purchase.RecordedBy.Username != "admin" {
		t.Errorf("expected recording user snapshot, got %q", purchase.RecordedBy.Username)
	}

	// The purchase shows up in the list and the dashboard.
	var purchases []model.Purchase
	req, _ = authRequest("GET", server.URL+"/api/purchases", token, nil)
	doJSON(t, req, http.StatusOK, &purchases)
	if len(purchases) != 1 {
		t.Fatalf("expected 1 purchase, got %d", len(purchases))
	}

	var metrics model.DashboardMetrics
	req, _ = authRequest("GET",
		server.URL+"/api/dashboard?start=2025-03-01&end=2025-03-31", token, nil)
	doJSON(t, req, http.StatusOK, &metrics)
	if metrics.NetMovement != 20 || metrics.NetMovementBreakdown.TotalPurchases != 20 {
		t.Errorf("expected net movement 20 from the purchase, got %d", metrics.NetMovement)
	}

	// The dashboard requires a date window.
	req, _ = authRequest("GET", server.URL+"/api/dashboard", token, nil)
	doJSON(t, req, http.StatusBadRequest, nil)
}

func TestCommanderReadOnly(t *testing.T) {
	server, database, adminToken := setupTestServer(t)
	ctx := context.Background()

	var base model.Base
	req, _ := authRequest("POST", server.URL+"/api/bases", adminToken, map[string]string{"name": "Base Alpha"})
	doJSON(t, req, http.StatusCreated, &base)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	commander, err := store.CreateUser(ctx, database, "commander", "", string(hash),
		model.RoleCommander, []string{base.ID})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	token, _ := auth.GenerateToken(testJWTSecret, commander)

	// Commanders read records but cannot append them.
	req, _ = authRequest("GET", server.URL+"/api/purchases", token, nil)
	doJSON(t, req, http.StatusOK, nil)

	req, _ = authRequest("POST", server.URL+"/api/purchases", token, map[string]any{
		"asset_id": "x", "quantity": 1, "unit_cost": "1",
		"purchase_date": "2025-03-15", "receiving_base_id": base.ID,
	})
	doJSON(t, req, http.StatusForbidden, nil)

	// Nor manage users.
	req, _ = authRequest("GET", server.URL+"/api/users", token, nil)
	doJSON(t, req, http.StatusForbidden, nil)
}

func TestBaseScopeEnforced(t *testing.T) {
	server, database, adminToken := setupTestServer(t)
	ctx := context.Background()

	var baseA, baseB model.Base
	req, _ := authRequest("POST", server.URL+"/api/bases", adminToken, map[string]string{"name": "Base Alpha"})
	doJSON(t, req, http.StatusCreated, &baseA)
	req, _ = authRequest("POST", server.URL+"/api/bases", adminToken, map[string]string{"name": "Base Bravo"})
	doJSON(t, req, http.StatusCreated, &baseB)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	logistics, err := store.CreateUser(ctx, database, "logistics", "", string(hash),
		model.RoleLogistics, []string{baseA.ID})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	token, _ := auth.GenerateToken(testJWTSecret, logistics)

	// Filtering by an unauthorized base is forbidden, for lists and for the
	// dashboard alike.
	req, _ = authRequest("GET", server.URL+"/api/purchases?base_id="+baseB.ID, token, nil)
	doJSON(t, req, http.StatusForbidden, nil)

	req, _ = authRequest("GET",
		server.URL+"/api/dashboard?start=2025-03-01&end=2025-03-31&base_id="+baseB.ID, token, nil)
	doJSON(t, req, http.StatusForbidden, nil)

	req, _ = authRequest("GET", server.URL+"/api/purchases?base_id="+baseA.ID, token, nil)
	doJSON(t, req, http.StatusOK, nil)

	// The visible base list is scoped too.
	var bases []model.Base
	req, _ = authRequest("GET", server.URL+"/api/bases", token, nil)
	doJSON(t, req, http.StatusOK, &bases)
	if len(bases) != 1 || bases[0].ID != baseA.ID {
		t.Errorf("expected only base A visible, got %v", bases)
	}
}

func TestDashboardScopedWithoutBaseFilter(t *testing.T) {
	server, database, adminToken := setupTestServer(t)
	ctx := context.Background()

	var baseA, baseB model.Base
	req, _ := authRequest("POST", server.URL+"/api/bases", adminToken, map[string]string{"name": "Base Alpha"})
	doJSON(t, req, http.StatusCreated, &baseA)
	req, _ = authRequest("POST", server.URL+"/api/bases", adminToken, map[string]string{"name": "Base Bravo"})
	doJSON(t, req, http.StatusCreated, &baseB)

	var et model.EquipmentType
	req, _ = authRequest("POST", server.URL+"/api/equipment-types", adminToken, map[string]string{
		"name": "Rifle", "category": "ground",
	})
	doJSON(t, req, http.StatusCreated, &et)

	var asset model.Asset
	req, _ = authRequest("POST", server.URL+"/api/assets", adminToken, map[string]any{
		"equipment_type_id": et.ID, "model_name": "M4", "serial_number": "SN-1",
		"current_base_id": baseB.ID, "quantity": 1,
	})
	doJSON(t, req, http.StatusCreated, &asset)

	// A purchase at base B only.
	req, _ = authRequest("POST", server.URL+"/api/purchases", adminToken, map[string]any{
		"asset_id": asset.ID, "quantity": 15, "unit_cost": "1200",
		"purchase_date": "2025-03-15", "receiving_base_id": baseB.ID,
	})
	doJSON(t, req, http.StatusCreated, nil)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	commander, err := store.CreateUser(ctx, database, "commander", "", string(hash),
		model.RoleCommander, []string{baseA.ID})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	token, _ := auth.GenerateToken(testJWTSecret, commander)

	// With no base filter the dashboard still only aggregates the caller's
	// bases. The base-A commander must not see base B's purchase.
	var metrics model.DashboardMetrics
	req, _ = authRequest("GET",
		server.URL+"/api/dashboard?start=2025-03-01&end=2025-03-31", token, nil)
	doJSON(t, req, http.StatusOK, &metrics)
	if metrics.NetMovementBreakdown.TotalPurchases != 0 || metrics.NetMovement != 0 {
		t.Errorf("commander sees %d purchased / net %d from an unauthorized base, want 0/0",
			metrics.NetMovementBreakdown.TotalPurchases, metrics.NetMovement)
	}
	if len(metrics.NetMovementBreakdown.Purchases) != 0 {
		t.Errorf("breakdown itemizes %d records from an unauthorized base",
			len(metrics.NetMovementBreakdown.Purchases))
	}

	// The admin still sees everything.
	req, _ = authRequest("GET",
		server.URL+"/api/dashboard?start=2025-03-01&end=2025-03-31", adminToken, nil)
	doJSON(t, req, http.StatusOK, &metrics)
	if metrics.NetMovementBreakdown.TotalPurchases != 15 {
		t.Errorf("admin total purchases = %d, want 15", metrics.NetMovementBreakdown.TotalPurchases)
	}
}

func TestCreateUserPasswordPolicy(t *testing.T) {
	server, _, adminToken := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/users", adminToken, map[string]any{
		"username": "newbie", "password": "short", "role": "logistics",
	})
	doJSON(t, req, http.StatusBadRequest, nil)

	var created model.User
	req, _ = authRequest("POST", server.URL+"/api/users", adminToken, map[string]any{
		"username": "newbie", "password": "long enough", "role": "logistics",
	})
	doJSON(t, req, http.StatusCreated, &created)
	if created.Username != "newbie" {
		t.Errorf("expected created user, got %+v", created)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	server, _, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/auth/logout", token, nil)
	doJSON(t, req, http.StatusOK, nil)

	req, _ = authRequest("GET", server.URL+"/api/assets", token, nil)
	doJSON(t, req, http.StatusUnauthorized, nil)
}
