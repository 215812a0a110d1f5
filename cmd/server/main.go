package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"codeassess/internal/api"
	"codeassess/internal/config"
	"codeassess/internal/database"
	"codeassess/internal/handlers"
	"codeassess/internal/repository"
	"codeassess/internal/security"
	"codeassess/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg := config.Load()

	startup := handlers.NewStartupStatus("session store", "templates", "services")

	keys, err := security.DeriveKeys(cfg.SecretKey)
	if err != nil {
		log.Fatalf("Failed to derive keys: %v", err)
	}
	sealer, err := security.NewTokenSealer(keys.Sealing)
	if err != nil {
		log.Fatalf("Failed to create token sealer: %v", err)
	}

	// Session store: SQL (sqlite, postgres, mysql) or redis
	store, closer, err := openSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}
	defer closer.Close()
	startup.CompleteStep("session store")

	// Load templates
	templates, err := handlers.LoadTemplates(cfg.TemplatesPath)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}
	log.Println("Templates loaded successfully")
	startup.CompleteStep("templates")

	// Initialize services
	client := api.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	authService := service.NewAuthService(store, sealer, client, cfg.SessionDuration)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
	if err != nil {
		log.Printf("Warning: Failed to initialize email service: %v", err)
		emailService = nil
	}
	assignmentService := service.NewAssignmentService(emailService, cfg.NotifyEmails, cfg.StatsConcurrency)

	var rateLimiter *security.RateLimiter
	if cfg.LoginRateLimit > 0 {
		rateLimiter = security.NewRateLimiter(cfg.LoginRateLimit, time.Minute, cfg.TrustProxy)
	}
	startup.CompleteStep("services")

	// Initialize handlers
	middleware := handlers.NewMiddleware(authService, security.NewCSRFGenerator(keys.CSRF), rateLimiter)
	authHandler := handlers.NewAuthHandler(authService, templates)
	adminHandler := handlers.NewAdminHandler(authService, assignmentService, middleware, templates)
	employeeHandler := handlers.NewEmployeeHandler(authService, assignmentService, middleware, templates)

	// Setup routes
	mux := http.NewServeMux()

	// Static files
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticFilesPath))))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /healthz", startup)

	// Auth routes
	mux.HandleFunc("GET /", authHandler.Home)
	mux.HandleFunc("POST /login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /register", authHandler.ShowRegister)
	mux.HandleFunc("POST /register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /logout", middleware.CSRFProtect(authHandler.Logout))

	// Admin routes
	mux.HandleFunc("GET /admin", adminHandler.ShowDashboard)
	mux.HandleFunc("GET /admin/create-assignment", adminHandler.ShowCreateAssignment)
	mux.HandleFunc("POST /admin/create-assignment", middleware.CSRFProtect(adminHandler.CreateAssignment))
	mux.HandleFunc("GET /admin/submissions", adminHandler.ShowSubmissions)
	mux.HandleFunc("GET /admin/assignments/{id}/submissions", adminHandler.ShowAssignmentSubmissions)

	// Employee routes
	mux.HandleFunc("GET /employee", employeeHandler.ShowDashboard)
	mux.HandleFunc("GET /editor/{id}", employeeHandler.ShowEditor)
	mux.HandleFunc("POST /editor/{id}/submit", middleware.CSRFProtect(employeeHandler.SubmitEditor))

	// Wrap with session and logging middleware
	handler := handlers.Logging(middleware.LoadSession(mux))

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.APITimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start background session cleanup
	go cleanupExpiredSessions(ctx, authService)

	go func() {
		log.Printf("Server starting on http://localhost%s (backend %s)", addr, cfg.APIBaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()
	startup.MarkReady()

	// Wait for interrupt signal
	<-ctx.Done()
	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}

// openSessionStore returns the configured session store and the
// connection to close on shutdown
func openSessionStore(cfg *config.Config) (service.SessionStore, io.Closer, error) {
	if cfg.SessionStore == "redis" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, err
		}
		log.Printf("Session store: redis at %s", cfg.RedisAddr)
		return repository.NewRedisSessionRepository(rdb), rdb, nil
	}

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		db.Close()
		return nil, nil, err
	}
	log.Println("Migrations completed successfully")

	return repository.NewSessionRepository(db), db, nil
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(ctx context.Context, authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := authService.CleanupExpiredSessions(ctx)
			if err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
				continue
			}
			log.Printf("Expired sessions cleaned up: %d", removed)
		}
	}
}
