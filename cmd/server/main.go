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

	"billgen/internal/bill"
	"billgen/internal/config"
	"billgen/internal/email/noop"
	sesemail "billgen/internal/email/ses"
	"billgen/internal/handler"
	"billgen/internal/numwords"
	"billgen/internal/port"
	"billgen/internal/repository/postgres"
	"billgen/internal/router"
	"billgen/internal/service"
	s3storage "billgen/internal/storage/s3"
)

// @title Bill Generator API
// @version 1.0
// @description Generates contractor running bills from work order workbooks.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: reading .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Log.Level == "debug" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	runRepo := postgres.NewBillRunRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(ctx, &cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize email
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = sesemail.NewSESSender(ctx, cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender()
	}

	// Initialize services
	engine, err := bill.NewEngine(bill.WithLayout(cfg.Bill.Layout), bill.WithWords(numwords.Indian{}))
	if err != nil {
		return fmt.Errorf("failed to initialize bill engine: %w", err)
	}
	cache := service.NewResultCache(cfg.Cache.TTL, cfg.Cache.MaxEntries)
	authSvc := service.NewAuthService(cfg.Auth, cfg.JWT)
	billSvc := service.NewBillService(runRepo, s3Client, emailSender, engine, cache, service.BillServiceConfig{
		MaxUploadBytes: cfg.Server.MaxUploadBytes(),
		PresignExpiry:  time.Duration(cfg.S3.PresignExpiry) * time.Second,
	})

	cleanup := service.NewCleanupJob(runRepo, s3Client, cache, cfg.Cleanup)
	if err := cleanup.Start(); err != nil {
		return err
	}
	defer cleanup.Stop()

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	billH := handler.NewBillHandler(billSvc, handler.BillDefaults{
		PremiumPercent: cfg.Bill.DefaultPremiumPercent,
		PremiumType:    cfg.Bill.DefaultPremiumType,
		MaxUploadBytes: cfg.Server.MaxUploadBytes(),
	})
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, authH, billH, healthH, cfg.CORS.AllowedOrigins)
	r.MaxMultipartMemory = cfg.Server.MaxUploadBytes()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Println("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
