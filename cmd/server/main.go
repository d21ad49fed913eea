package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"quartermaster/internal/api"
	"quartermaster/internal/dashboard"
	"quartermaster/internal/db"
	"quartermaster/internal/model"
	"quartermaster/internal/store"
)

func main() {
	// Missing .env is fine, environment variables still apply.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: quartermaster <init|seed|serve>")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		cmdInit(os.Args[2:])
	case "seed":
		cmdSeed(os.Args[2:])
	case "serve":
		cmdServe(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\nUsage: quartermaster <init|seed|serve>\n", os.Args[1])
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func cmdInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	dbPath := fs.String("db", envOr("QM_DB", "quartermaster.sqlite3"), "path to SQLite database file")
	fs.Parse(args)

	if _, err := os.Stat(*dbPath); err == nil {
		fmt.Fprintf(os.Stderr, "Error: database file %s already exists\n", *dbPath)
		os.Exit(1)
	}

	database, password, err := initDatabase(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	database.Close()

	printInitResult(*dbPath, password)
}

func cmdSeed(args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	dbPath := fs.String("db", envOr("QM_DB", "quartermaster.sqlite3"), "path to SQLite database file")
	fs.Parse(args)

	database, err := db.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to migrate database: %v\n", err)
		os.Exit(1)
	}

	if err := seedDemoData(context.Background(), database); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to seed demo data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Demo data seeded.")
	fmt.Println()
	fmt.Println("Demo accounts (password: password123):")
	fmt.Println("  commander  (commander, Fort Liberty)")
	fmt.Println("  logistics  (logistics, Fort Liberty and Camp Pendleton)")
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	dbPath := fs.String("db", envOr("QM_DB", "quartermaster.sqlite3"), "path to SQLite database file")
	addr := fs.String("addr", envOr("QM_ADDR", ":8080"), "listen address")
	jwtSecret := fs.String("jwt-secret", os.Getenv("QM_JWT_SECRET"), "JWT signing key (persisted in the database if empty)")
	logPath := fs.String("log", os.Getenv("QM_LOG"), "log file path (stdout/stderr only if empty)")
	fs.Parse(args)

	// Structured logging: INFO/WARN to stdout, ERROR to stderr, optionally a file.
	closeLog, err := setupLogger(*logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	// Check if DB exists, auto-init if not.
	if _, err := os.Stat(*dbPath); os.IsNotExist(err) {
		database, password, err := initDatabase(*dbPath)
		if err != nil {
			slog.Error("failed to initialize database", "error", err)
			os.Exit(1)
		}
		database.Close()

		printInitResult(*dbPath, password)
		fmt.Println()
	}

	database, err := db.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Run migrations (idempotent).
	if err := db.Migrate(database); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	slog.Info("database ready", "path", *dbPath)

	// The signing key survives restarts unless one is given explicitly.
	if *jwtSecret == "" {
		*jwtSecret, err = store.GetJWTSecret(context.Background(), database)
		if err != nil {
			slog.Error("failed to load JWT secret", "error", err)
			os.Exit(1)
		}
	}

	engine := dashboard.NewEngine(database)
	if v := os.Getenv("QM_OPENING_BALANCE"); v != "" {
		engine.OpeningBalance, err = strconv.Atoi(v)
		if err != nil {
			slog.Error("invalid QM_OPENING_BALANCE", "value", v, "error", err)
			os.Exit(1)
		}
	}

	handler := api.LoggingMiddleware(api.NewRouter(database, *jwtSecret, engine))

	server := &http.Server{
		Addr:              *addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", *addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped, closing database")
}

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

// initDatabase creates a new database, runs migrations, and creates the admin user.
func initDatabase(path string) (*sql.DB, string, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}

	if err := db.Migrate(database); err != nil {
		database.Close()
		os.Remove(path)
		return nil, "", fmt.Errorf("running migrations: %w", err)
	}

	password, err := generatePassword(16)
	if err != nil {
		database.Close()
		os.Remove(path)
		return nil, "", fmt.Errorf("generating password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		database.Close()
		os.Remove(path)
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	ctx := context.Background()
	_, err = store.CreateUser(ctx, database, "admin", "Administrator", string(hash), model.RoleAdmin, nil)
	if err != nil {
		database.Close()
		os.Remove(path)
		return nil, "", fmt.Errorf("creating admin user: %w", err)
	}

	return database, password, nil
}

// printInitResult prints the database initialization result to stdout.
func printInitResult(dbPath, password string) {
	fmt.Printf("Database created: %s\n", dbPath)
	fmt.Println("Schema initialized.")
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: admin\n")
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("The admin can change it after logging in.")
}

// seedDemoData loads a small demo dataset: three bases, four equipment types,
// starting assets, and a commander and logistics account scoped to them.
func seedDemoData(ctx context.Context, database *sql.DB) error {
	fortLiberty, err := store.CreateBase(ctx, database, "Fort Liberty", "North Carolina", "Primary army installation")
	if err != nil {
		return fmt.Errorf("seeding bases: %w", err)
	}
	campPendleton, err := store.CreateBase(ctx, database, "Camp Pendleton", "California", "Marine corps base")
	if err != nil {
		return fmt.Errorf("seeding bases: %w", err)
	}
	if _, err := store.CreateBase(ctx, database, "Joint Base Lewis-McChord", "Washington", "Joint army and air force base"); err != nil {
		return fmt.Errorf("seeding bases: %w", err)
	}

	carbine, err := store.CreateEquipmentType(ctx, database, "M4A1 Carbine", model.CategoryGround, "5.56mm carbine")
	if err != nil {
		return fmt.Errorf("seeding equipment types: %w", err)
	}
	humvee, err := store.CreateEquipmentType(ctx, database, "HMMWV", model.CategoryGround, "High mobility multipurpose wheeled vehicle")
	if err != nil {
		return fmt.Errorf("seeding equipment types: %w", err)
	}
	ammo, err := store.CreateEquipmentType(ctx, database, "5.56mm Ammunition", model.CategoryConsumable, "Rifle ammunition, per round")
	if err != nil {
		return fmt.Errorf("seeding equipment types: %w", err)
	}
	abrams, err := store.CreateEquipmentType(ctx, database, "M1A2 Abrams", model.CategoryHeavyWeaponry, "Main battle tank")
	if err != nil {
		return fmt.Errorf("seeding equipment types: %w", err)
	}

	if _, err := store.CreateAsset(ctx, database, carbine.ID, "M4A1", "SN-4521", fortLiberty.ID, 5); err != nil {
		return fmt.Errorf("seeding assets: %w", err)
	}
	if _, err := store.CreateAsset(ctx, database, humvee.ID, "M1151A1", "VH-0042", campPendleton.ID, 5); err != nil {
		return fmt.Errorf("seeding assets: %w", err)
	}
	if _, err := store.CreateAsset(ctx, database, abrams.ID, "M1A2 SEPv3", "TK-0007", fortLiberty.ID, 5); err != nil {
		return fmt.Errorf("seeding assets: %w", err)
	}
	rounds, err := store.CreateAsset(ctx, database, ammo.ID, "M855A1", "", fortLiberty.ID, 10000)
	if err != nil {
		return fmt.Errorf("seeding assets: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing demo password: %w", err)
	}

	if _, err := store.CreateUser(ctx, database, "commander", "Base Commander",
		string(hash), model.RoleCommander, []string{fortLiberty.ID}); err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}
	logistics, err := store.CreateUser(ctx, database, "logistics", "Logistics Officer",
		string(hash), model.RoleLogistics, []string{fortLiberty.ID, campPendleton.ID})
	if err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}

	// A recorded training expenditure leaves the ammunition balance at 8500.
	_, err = store.AppendExpenditure(ctx, database, model.NewExpenditure{
		AssetID:          rounds.ID,
		QuantityExpended: 1500,
		ExpenditureDate:  time.Now(),
		BaseID:           fortLiberty.ID,
		Reason:           "Quarterly range qualification",
		ReportedByUserID: logistics.ID,
	})
	if err != nil {
		return fmt.Errorf("seeding expenditure: %w", err)
	}

	return nil
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
