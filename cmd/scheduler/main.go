package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corplearning/backend/internal/config"
	"github.com/corplearning/backend/internal/jobs"
	"github.com/corplearning/backend/internal/logger"
	"github.com/corplearning/backend/internal/repositories"
	_ "github.com/go-sql-driver/mysql"
	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

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

	logger.Logger.Info("Starting Reminder Scheduler")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Create Asynq client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	enqueuer := jobs.NewReminderEnqueuer(repositories.NewCatalogRepository(db), asynqClient, logger.Logger)

	c := cron.New()
	_, err = c.AddFunc(cfg.Reminders.Cron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := enqueuer.EnqueueAll(ctx); err != nil {
			logger.Logger.Error("Failed to enqueue inactivity reminders", zap.Error(err))
		}
	})
	if err != nil {
		logger.Logger.Fatal("Invalid reminder schedule", zap.String("cron", cfg.Reminders.Cron), zap.Error(err))
	}

	c.Start()
	logger.Logger.Info("Scheduler started", zap.String("cron", cfg.Reminders.Cron))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	logger.Logger.Info("Scheduler exited")
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
