package api

import (
	"database/sql"
	"net/http"

	"quartermaster/internal/dashboard"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, engine *dashboard.Engine) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	referenceHandler := &ReferenceHandler{DB: db}
	purchasesHandler := &PurchasesHandler{DB: db}
	transfersHandler := &TransfersHandler{DB: db}
	assignmentsHandler := &AssignmentsHandler{DB: db}
	expendituresHandler := &ExpendituresHandler{DB: db}
	dashboardHandler := &DashboardHandler{Engine: engine}

	authMW := AuthMiddleware(jwtSecret, db)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(RequireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(RequireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(RequireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}/password", authMW(RequireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(RequireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Reference data: reads scoped by role, writes admin only.
	mux.Handle("GET /api/bases", authMW(http.HandlerFunc(referenceHandler.ListBases)))
	mux.Handle("POST /api/bases", authMW(RequireAdmin(http.HandlerFunc(referenceHandler.CreateBase))))
	mux.Handle("GET /api/equipment-types", authMW(http.HandlerFunc(referenceHandler.ListEquipmentTypes)))
	mux.Handle("POST /api/equipment-types", authMW(RequireAdmin(http.HandlerFunc(referenceHandler.CreateEquipmentType))))
	mux.Handle("GET /api/assets", authMW(http.HandlerFunc(referenceHandler.ListAssets)))
	mux.Handle("POST /api/assets", authMW(RequireAdmin(http.HandlerFunc(referenceHandler.CreateAsset))))

	// Movement records: reads scoped by role, appends for writer roles.
	mux.Handle("GET /api/purchases", authMW(http.HandlerFunc(purchasesHandler.List)))
	mux.Handle("POST /api/purchases", authMW(RequireWriter(http.HandlerFunc(purchasesHandler.Create))))
	mux.Handle("GET /api/transfers", authMW(http.HandlerFunc(transfersHandler.List)))
	mux.Handle("POST /api/transfers", authMW(RequireWriter(http.HandlerFunc(transfersHandler.Create))))
	mux.Handle("GET /api/assignments", authMW(http.HandlerFunc(assignmentsHandler.List)))
	mux.Handle("POST /api/assignments", authMW(RequireWriter(http.HandlerFunc(assignmentsHandler.Create))))
	mux.Handle("GET /api/expenditures", authMW(http.HandlerFunc(expendituresHandler.List)))
	mux.Handle("POST /api/expenditures", authMW(RequireWriter(http.HandlerFunc(expendituresHandler.Create))))

	// Dashboard metrics.
	mux.Handle("GET /api/dashboard", authMW(http.HandlerFunc(dashboardHandler.Metrics)))

	return mux
}
