package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hvac-pq-report/internal/config"
	"hvac-pq-report/internal/database"
	"hvac-pq-report/internal/handler"
	"hvac-pq-report/internal/logging"
	"hvac-pq-report/internal/middleware"
	"hvac-pq-report/internal/report"
	"hvac-pq-report/internal/repository"
	"hvac-pq-report/internal/service"
	"hvac-pq-report/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration and logger
	cfg := config.LoadConfig()
	log, err := logging.New(cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	log.Info("configuration loaded", zap.String("db_driver", cfg.Database.Driver))

	// 2. Initialize JWT utilities with config
	utils.InitJWT(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// 3. Initialize database connection
	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("database unavailable", zap.Error(err))
	}

	// 4. Initialize repositories
	userRepo := repository.NewUserRepo(db)
	hospitalRepo := repository.NewHospitalRepo(db)
	reportRepo := repository.NewReportRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	// 5. Initialize services
	exporter := report.NewExporter(cfg.Report.MaxParallelExports)
	authService := service.NewAuthService(userRepo, auditRepo, log)
	hospitalService := service.NewHospitalService(hospitalRepo, auditRepo, log)
	wizardService := service.NewWizardService(hospitalService, exporter, cfg.Report.RequireHospital, cfg.Report.SessionIdleTimeout, log)
	reportService := service.NewReportService(reportRepo, userRepo, hospitalRepo, auditRepo, wizardService, exporter, log)
	janitor := service.NewSessionJanitor(wizardService, cfg.Report.JanitorInterval, log)

	// 6. Start the session janitor
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go janitor.Start(ctx)

	// 7. Setup Gin
	gin.SetMode(cfg.Server.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger(log), middleware.CORS(cfg))

	handler.RegisterRoutes(r, handler.Handlers{
		Auth:     handler.NewAuthHandler(authService, int(cfg.JWT.RefreshTokenExpiry.Seconds())),
		Hospital: handler.NewHospitalHandler(hospitalService),
		Wizard:   handler.NewWizardHandler(wizardService, reportService),
		Report:   handler.NewReportHandler(reportService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 8. Serve until interrupted
	go func() {
		log.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	log.Info("server exited")
}
