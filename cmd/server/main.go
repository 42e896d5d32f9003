// @title           Rentdesk API
// @version         1.0
// @description     Multi-company rental management: properties, tenancies, invoicing, collections and refunds.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
// @description     Bearer access token returned by /auth/login.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"rentdesk/internal/config"
	"rentdesk/internal/email/noop"
	"rentdesk/internal/email/ses"
	"rentdesk/internal/handler"
	"rentdesk/internal/logger"
	"rentdesk/internal/port"
	"rentdesk/internal/repository/postgres"
	"rentdesk/internal/router"
	"rentdesk/internal/service"
	s3storage "rentdesk/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// A missing .env is fine outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zlog.Sync() }()
	zap.ReplaceGlobals(zlog)

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	tx := postgres.NewTransactor(db)
	companyRepo := postgres.NewCompanyRepo(db)
	userRepo := postgres.NewUserRepo(db)
	buildingRepo := postgres.NewBuildingRepo(db)
	unitRepo := postgres.NewUnitRepo(db)
	tenantRepo := postgres.NewTenantRepo(db)
	chargeTypeRepo := postgres.NewChargeTypeRepo(db)
	taxRepo := postgres.NewTaxRepo(db)
	tenancyRepo := postgres.NewTenancyRepo(db)
	lineItemRepo := postgres.NewLineItemRepo(db)
	invoiceRepo := postgres.NewInvoiceRepo(db)
	collectionRepo := postgres.NewCollectionRepo(db)
	distRepo := postgres.NewDistributionRepo(db)
	overpaymentRepo := postgres.NewOverpaymentRepo(db)
	refundRepo := postgres.NewRefundRepo(db)
	fileRepo := postgres.NewFileMetaRepo(db)
	reportRepo := postgres.NewReportRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	sender, err := newEmailSender(cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to initialize email sender: %w", err)
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, companyRepo, cfg.JWT)
	regSvc := service.NewRegistrationService(tx, companyRepo, userRepo, authSvc)
	companySvc := service.NewCompanyService(companyRepo)
	userSvc := service.NewUserService(userRepo)
	propertySvc := service.NewPropertyService(buildingRepo, unitRepo, tenantRepo)
	chargeSvc := service.NewChargeService(tx, chargeTypeRepo, taxRepo)
	tenancySvc := service.NewTenancyService(tx, tenancyRepo, lineItemRepo, chargeTypeRepo,
		tenantRepo, buildingRepo, unitRepo, cfg.Billing)
	invoiceSvc := service.NewInvoiceService(tx, invoiceRepo, tenancyRepo, lineItemRepo,
		companyRepo, tenantRepo, sender, cfg.Billing)
	collectionSvc := service.NewCollectionService(tx, collectionRepo, distRepo, overpaymentRepo,
		invoiceRepo, lineItemRepo, companyRepo, tenancyRepo, tenantRepo, sender)
	refundSvc := service.NewRefundService(tx, refundRepo, tenancyRepo, invoiceRepo, lineItemRepo, overpaymentRepo)
	fileSvc := service.NewFileService(fileRepo, tenancyRepo, s3Client, &cfg.S3)
	reportSvc := service.NewReportService(reportRepo)

	// Initialize handlers
	handlers := router.Handlers{
		Auth:       handler.NewAuthHandler(authSvc, regSvc),
		Company:    handler.NewCompanyHandler(companySvc),
		User:       handler.NewUserHandler(userSvc),
		Property:   handler.NewPropertyHandler(propertySvc),
		Charge:     handler.NewChargeHandler(chargeSvc),
		Tenancy:    handler.NewTenancyHandler(tenancySvc),
		File:       handler.NewFileHandler(fileSvc),
		Invoice:    handler.NewInvoiceHandler(invoiceSvc),
		Collection: handler.NewCollectionHandler(collectionSvc),
		Refund:     handler.NewRefundHandler(refundSvc),
		Report:     handler.NewReportHandler(reportSvc),
		Health:     handler.NewHealthHandler(db),
	}

	r := router.Setup(cfg, zlog, authSvc, handlers)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerDone := make(chan struct{})
	if cfg.Billing.AutoInvoiceEnabled {
		worker := service.NewRecurringInvoiceWorker(tenancyRepo, invoiceSvc, cfg.Billing)
		go func() {
			defer close(workerDone)
			worker.Start(ctx)
		}()
	} else {
		close(workerDone)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           r,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		zap.S().Infow("Server starting", "addr", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		zap.S().Info("Shutdown signal received")
	}

	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	<-workerDone
	zap.S().Info("Server stopped")

	return nil
}

func newEmailSender(cfg config.EmailConfig) (port.EmailSender, error) {
	switch cfg.Provider {
	case "ses":
		return ses.NewSESSender(cfg.Region, cfg.FromAddress, cfg.FromName, cfg.FrontendURL)
	case "", "noop":
		return noop.NewNoopSender(cfg.FrontendURL), nil
	default:
		zap.S().Warnw("Unknown email provider, falling back to noop", "provider", cfg.Provider)
		return noop.NewNoopSender(cfg.FrontendURL), nil
	}
}
