package main

import (
	"context"
	"flag"
	"log"
	"os"

	"fintrack/internal/repository"
	"fintrack/internal/service"
	"fintrack/pkg/config"
	"fintrack/pkg/logger"
	"fintrack/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	file := flag.String("file", "SampleData.json", "JSON array of transactions to import")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	if cfg.Storage.Driver == config.StorageDriverMemory {
		appLogger.Fatal("Import needs postgres storage, STORAGE_DRIVER is memory")
	}

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	f, err := os.Open(*file)
	if err != nil {
		appLogger.Fatal("Failed to open import file", zap.String("file", *file), zap.Error(err))
	}
	defer f.Close()

	importer := service.NewImportService(repository.NewTransactionRepository(db, appLogger), logger.Named("import"))

	appLogger.Info("Importing transactions", zap.String("file", *file))
	result, err := importer.ImportJSON(ctx, f)
	if err != nil {
		appLogger.Fatal("Import failed", zap.Error(err))
	}

	appLogger.Info("Data imported successfully",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)
}
