package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fintrack/internal/api"
	"fintrack/internal/api/handlers"
	"fintrack/internal/repository"
	"fintrack/internal/service"
	"fintrack/pkg/auth"
	"fintrack/pkg/config"
	"fintrack/pkg/logger"
	"fintrack/pkg/mailer"
	"fintrack/pkg/postgres"

	"go.uber.org/zap"
)

// @title Fintrack API
// @version 1.0
// @description Transaction dashboard backend: OTP registration, JWT sessions, summaries, trends and exports.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting fintrack service", zap.String("storage", cfg.Storage.Driver))

	ctx := context.Background()

	var (
		userStore service.UserStore
		txStore   service.TransactionStore
	)
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		appLogger.Warn("Using in-memory storage, data is lost on restart")
		userStore = repository.NewMemoryUserRepository()
		txStore = repository.NewMemoryTransactionRepository()
	default:
		db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		userStore = repository.NewUserRepository(db, logger.Named("user_repository"))
		txStore = repository.NewTransactionRepository(db, logger.Named("transaction_repository"))
	}

	m, err := mailer.New(&cfg.Mail, logger.Named("mailer"))
	if err != nil {
		appLogger.Fatal("Failed to initialize mailer", zap.Error(err))
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Issuer, cfg.JWT.SessionTTL, cfg.JWT.ResetTTL)
	trends := service.NewTrendBuilder(cfg.Report.Location)

	authService := service.NewAuthService(userStore, jwtManager, m, cfg.OTP, logger.Named("auth_service"))
	txService := service.NewTransactionService(txStore, trends, logger.Named("transaction_service"))
	exportService := service.NewExportService(txStore, trends, logger.Named("export_service"))
	mailService := service.NewMailService(m, cfg.Mail.TestRecipient, logger.Named("mail_service"))

	handlerLogger := logger.Named("http")
	app := api.SetupRouter(api.Handlers{
		Auth:         handlers.NewAuthHandler(authService, handlerLogger),
		Transactions: handlers.NewTransactionHandler(txService, handlerLogger),
		Export:       handlers.NewExportHandler(exportService, handlerLogger),
		Mail:         handlers.NewMailHandler(mailService, handlerLogger),
	}, jwtManager, api.Options{
		AuthRateLimit: cfg.RateLimit.AuthPerMinute,
		StaticDir:     cfg.Server.StaticDir,
		AccessLog:     true,
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
	}, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
