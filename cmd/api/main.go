package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/corplearning/backend/docs"
	authMiddleware "github.com/corplearning/backend/internal/auth/middleware"
	authService "github.com/corplearning/backend/internal/auth/service"
	"github.com/corplearning/backend/internal/cache"
	"github.com/corplearning/backend/internal/config"
	"github.com/corplearning/backend/internal/handlers"
	"github.com/corplearning/backend/internal/logger"
	"github.com/corplearning/backend/internal/middleware"
	"github.com/corplearning/backend/internal/progress"
	"github.com/corplearning/backend/internal/repositories"
	"github.com/corplearning/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title CorpLearning Progress API
// @version 1.0
// @description Derived course progress, evaluation gates, attendance signatures and company reports of corporate training programs

// @contact.name API Support
// @contact.email support@corplearning.io

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API key for service-to-service authentication
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Progress API")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// Tokens are issued by the identity service, the generator is only used to validate them
	tokenValidator := authService.NewTokenGenerator(cfg.JWT.Secret, time.Hour)

	// Progress engine
	engine := progress.NewEngine(logger.Logger,
		progress.WithPolicy(progress.Policy{
			InactivityDays:              cfg.Progress.InactivityDays,
			AllowAttendanceCertificates: cfg.Progress.AllowAttendanceCertificates,
		}),
		progress.WithWorkers(cfg.Progress.Workers),
	)

	// Initialize repositories
	snapshotRepo := repositories.NewSnapshotRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)
	activityRepo := repositories.NewActivityRepository(db)
	reportCache := cache.NewReportCache(rdb, cfg.Progress.ReportCacheTTL)

	// Initialize services
	progressService := services.NewProgressService(snapshotRepo, catalogRepo, reportCache, engine, logger.Logger)
	activityService := services.NewActivityService(catalogRepo, activityRepo, progressService, reportCache, logger.Logger)

	// Initialize handlers
	progressHandler := handlers.NewProgressHandler(progressService, activityService, logger.Logger)
	reportHandler := handlers.NewReportHandler(progressService, logger.Logger)
	certificateHandler := handlers.NewCertificateHandler(activityService, logger.Logger)

	// Initialize auth middleware
	participantMiddleware := authMiddleware.AuthMiddleware(tokenValidator)
	managerMiddleware := authMiddleware.RoleMiddleware(tokenValidator, authService.RoleManager)
	apiKeyMiddleware := authMiddleware.APIKeyMiddleware(cfg.APIKey)

	// Setup router
	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware(logger.Logger))
	r.Use(middleware.LoggerMiddleware(logger.Logger))
	r.Use(middleware.RecoveryMiddleware(logger.Logger))
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middleware.JSONBodyMiddleware(middleware.DefaultMaxRequestSize))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api/v1", func(r chi.Router) {
		progressHandler.RegisterRoutes(r, participantMiddleware)
		reportHandler.RegisterRoutes(r, managerMiddleware)
		certificateHandler.RegisterRoutes(r, apiKeyMiddleware)
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: "progress_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Fall back to the parent directory when running from cmd
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		if _, err := os.Stat("../migrations"); err == nil {
			migrationPath = "file://../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(migrationPath, "mysql", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
