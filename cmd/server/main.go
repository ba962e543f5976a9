package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	emailPkg "saunaclub/internal/adapters/email"
	web "saunaclub/internal/adapters/http"
	"saunaclub/internal/adapters/http/perf"
	"saunaclub/internal/adapters/storage"
	"saunaclub/internal/application"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Initialize database with WAL mode and busy timeout
	dbPath := envOrDefault("SAUNACLUB_DB", "saunaclub.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	log.Println("Database initialized successfully!")

	// Performance instrumentation: timed KV, request collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	var kv storage.KV = &storage.TimedKV{
		Inner: storage.NewSQLiteKV(db),
		Observe: func(op string, d time.Duration) {
			collector.Record(perf.Entry{
				Kind:       perf.KindStore,
				Path:       op,
				DurationMs: float64(d.Microseconds()) / 1000.0,
				Timestamp:  time.Now(),
			})
		},
	}

	// Optional artificial storage latency for testing slow-disk behaviour
	if ms := os.Getenv("SAUNACLUB_STORAGE_LATENCY_MS"); ms != "" {
		if n, err := strconv.Atoi(ms); err == nil && n > 0 {
			kv = storage.NewLatencyKV(kv, time.Duration(n)*time.Millisecond)
			log.Printf("Storage latency simulation enabled (%dms)", n)
		}
	}

	snap := storage.LoadAll(context.Background(), kv)
	controller := application.New(kv, snap)
	defer controller.Flush()

	// Seed default admin account if no members exist
	adminUser := envOrDefault("SAUNACLUB_ADMIN_USER", "admin")
	adminPassword := envOrDefault("SAUNACLUB_ADMIN_PASSWORD", "Dampf und Duft")
	if err := controller.EnsureAdmin("Administrator", adminUser, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Configure email sender
	resendKey := os.Getenv("SAUNACLUB_RESEND_KEY")
	emailFrom := envOrDefault("SAUNACLUB_RESEND_FROM", "Saunaclub <noreply@saunaclub.example>")
	emailReply := envOrDefault("SAUNACLUB_REPLY_TO", "vorstand@saunaclub.example")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), emailFrom, emailReply)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), emailFrom, emailReply)
		if os.Getenv("SAUNACLUB_ENV") == "production" {
			log.Println("WARNING: SAUNACLUB_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set SAUNACLUB_RESEND_KEY for real delivery)")
		}
	}

	// Create HTTP handler with middleware (pass collector for timing + dashboard)
	mux := web.NewMux("static", controller, collector)

	addr := envOrDefault("SAUNACLUB_ADDR", ":8080")
	log.Printf("Saunaclub %s starting on %s (env=%s)", version, addr, envOrDefault("SAUNACLUB_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
