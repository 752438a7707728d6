package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/config"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/infrastructure/database"
	httpServer "github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/infrastructure/http"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/infrastructure/mailer"
	stripeProvider "github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/infrastructure/provider/stripe"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/infrastructure/scheduler"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/logger"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Development: cfg.Service.Environment != "production",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations
	if err := database.Migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	repos := database.NewRepositories(db, zapLogger)

	// Initialize external adapters
	checkout := stripeProvider.NewProvider(cfg.Payments.StripeSecretKey, cfg.Payments.StripeWebhookSecret, zapLogger)
	mail := mailer.NewSMTPMailer(cfg.Email, zapLogger)

	// Initialize services
	fulfillment := usecase.NewFulfillmentService(repos.Products, repos.Members, mail, zapLogger)
	services := httpServer.Services{
		Checkout:  usecase.NewCheckoutService(repos.Records, repos.Products, repos.Members, checkout, cfg.Service.ClientURL, cfg.Payments, zapLogger),
		Reconcile: usecase.NewReconcileService(repos.Records, repos.WebhookEvents, fulfillment, zapLogger),
		Lifecycle: usecase.NewLifecycleService(repos.Records, cfg.Payments, zapLogger),
		Reminders: usecase.NewReminderService(repos.Members, mail, cfg.Service.ClientURL, cfg.Payments, zapLogger),
		Reports:   usecase.NewReportService(repos.Records, zapLogger),
	}

	// Initialize background scheduler
	sched, err := scheduler.New(cfg.Payments, scheduler.Jobs{
		Lifecycle: services.Lifecycle,
		Reminders: services.Reminders,
		Reconcile: services.Reconcile,
	}, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize scheduler", zap.Error(err))
	}

	// Initialize HTTP server
	httpSrv := httpServer.NewServer(cfg, zapLogger, services, checkout)

	// Start servers
	go func() {
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	sched.Start()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down...")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	zapLogger.Info("Server shut down successfully")
}
