package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tourism-cert-service/internal/infrastructure/config"
	"tourism-cert-service/internal/infrastructure/oauth"
	"tourism-cert-service/internal/infrastructure/persistence"
	apiHTTP "tourism-cert-service/internal/interface/http"
	"tourism-cert-service/internal/interface/mailer"
	mongoRepo "tourism-cert-service/internal/interface/repository"
	"tourism-cert-service/internal/usecase"
	"tourism-cert-service/pkg/logger"
	"tourism-cert-service/pkg/metrics"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	domainRepo "tourism-cert-service/internal/domain/repository"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Tourism Certification Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	// Reference data lives in PostgreSQL; the designation table is optional
	// and the issuer degrades to warnings-only without it.
	var designationRepo domainRepo.DesignationRepository
	if cfg.PostgresURI != "" {
		gormDB, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		designationRepo = mongoRepo.NewGormDesignationRepository(gormDB)
	}

	// Set up metrics
	m := metrics.NewMetrics("tourism_cert")

	// Set up repositories
	appRepo := mongoRepo.NewMongoApplicationRepository(db)
	certRepo := mongoRepo.NewMongoCertificateRepository(db)
	counterRepo := mongoRepo.NewMongoCounterRepository(mongoClient, db, m, log)
	ticketRepo := mongoRepo.NewMongoTicketRepository(db)

	// Set up the approval notifier (optional; approvals proceed without it)
	var notifier domainRepo.Notifier
	if cfg.GmailRefreshToken != "" {
		gmailOAuth := oauth.NewGmailOAuth(
			cfg.GmailClientID,
			cfg.GmailClientSecret,
			cfg.GmailRefreshToken,
			log,
		)
		tokenSource := gmailOAuth.GetTokenSource(ctx)

		notifier, err = mailer.NewGmailNotifier(ctx, tokenSource, cfg.NotifyFrom, log)
		if err != nil {
			log.Fatal("Failed to create Gmail notifier", "error", err)
		}
	}

	// Set up usecases
	allocator := usecase.NewSequentialAllocator(counterRepo, log)
	issuer := usecase.NewCertificateIssuer(certRepo, designationRepo, allocator, m, log)
	transitions := usecase.NewTransitionManager(appRepo, issuer, notifier, m, log)
	reconciler := usecase.NewReconciler(appRepo, certRepo, m, log)
	ticketQuery := usecase.NewTicketQuery(ticketRepo, log)

	// Start the reconciliation sweep in a goroutine
	go func() {
		sweepTicker := time.NewTicker(cfg.ReconcileInterval)
		defer sweepTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Reconciler stopped")
				return
			case <-sweepTicker.C:
				log.Info("Running certificate-link reconciliation")
				if _, err := reconciler.Sweep(ctx); err != nil {
					log.Error("Reconciliation sweep failed", "error", err)
				}
			}
		}
	}()

	// Set up the API server
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())

	appHandler := apiHTTP.NewApplicationHandler(transitions, appRepo, log)
	ticketHandler := apiHTTP.NewTicketHandler(ticketQuery, log)
	apiHTTP.RegisterRoutes(e, appHandler, ticketHandler)

	go func() {
		log.Info("Starting API server", "port", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal("API server error", "error", err)
		}
	}()

	// Set up HTTP server for metrics
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	metricsServer := &http.Server{
		Addr:         ":" + cfg.MetricsPort,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Info("Starting metrics server", "port", cfg.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Metrics server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("API server shutdown error", "error", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Metrics server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Tourism Certification Service stopped")
}
