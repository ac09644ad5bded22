// @title invoicedesk API
// @version 1.0
// @description Upload, extract, review and accept supplier invoices.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	_ "invoicedesk/docs"
	"invoicedesk/internal/config"
	"invoicedesk/internal/handler"
	"invoicedesk/internal/parser/providers"
	"invoicedesk/internal/repository/postgres"
	"invoicedesk/internal/router"
	"invoicedesk/internal/service"
	s3storage "invoicedesk/internal/storage/s3"
	"invoicedesk/internal/validator"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	configureLogging(cfg)

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	reviewRepo := postgres.NewReviewDocumentRepo(db)
	auditRepo := postgres.NewAuditRepo(db)

	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	docParser, err := providers.Build(&cfg.Parser)
	if err != nil {
		return fmt.Errorf("failed to initialize extraction providers: %w", err)
	}

	opts, err := validator.OptionsFromConfig(&cfg.Validation)
	if err != nil {
		return fmt.Errorf("invalid validation settings: %w", err)
	}
	engine := validator.NewEngine(opts)

	reviewSvc := service.NewReviewService(reviewRepo, auditRepo, s3Client, docParser, engine, &cfg.S3)

	reviewH := handler.NewReviewHandler(reviewSvc)
	validationH := handler.NewValidationHandler(reviewSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(cfg, reviewH, validationH, healthH)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerDone := make(chan struct{})
	if cfg.Retry.Enabled {
		worker := service.NewRetryWorker(reviewRepo, reviewSvc, service.RetryConfig{
			PollInterval: cfg.Retry.PollInterval,
			MaxAttempts:  cfg.Retry.MaxAttempts,
			Concurrency:  cfg.Retry.Concurrency,
		})
		go func() {
			worker.Start(ctx)
			close(workerDone)
		}()
	} else {
		close(workerDone)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (%s)", cfg.Server.Port, cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			stop()
			<-workerDone
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	<-workerDone
	return nil
}

func configureLogging(cfg *config.Config) {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Log.Level == "debug" {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	}
}
