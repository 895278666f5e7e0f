package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"spendbook/internal/config"
	"spendbook/internal/database"
	"spendbook/internal/importer"
	"spendbook/internal/logger"
	"spendbook/internal/metrics"
	"spendbook/internal/services"
)

const pushTimeout = 10 * time.Second

func main() {
	logger.Init(os.Getenv("ENV"))

	if err := run(); err != nil {
		logger.Fatal("Import error", err)
	}
	logger.Sync()
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: import <file.csv>")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	file, err := os.Open(os.Args[1])
	if err != nil {
		return fmt.Errorf("CSV file not found: %w", err)
	}
	defer file.Close()

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	db := dbManager.DB()
	m := metrics.New()
	imp := importer.New(
		services.NewCategoryService(db),
		services.NewExpenseService(db),
		services.NewAuditService(db),
		m,
	)

	result, err := imp.Import(file)
	if err != nil {
		return err
	}
	fmt.Printf("Total categories: %d (%d created)\n", result.Categories, result.CategoriesCreated)
	fmt.Printf("Total expenses imported: %d\n", result.Imported)
	fmt.Printf("Rows skipped: %d\n", result.Skipped)

	return reportMetrics(cfg, m)
}

// reportMetrics logs the importer counters and, when a pushgateway is
// configured, pushes them so they outlive this process.
func reportMetrics(cfg *config.Config, m *metrics.Metrics) error {
	log := logger.Named("import")

	rows, err := m.ImportedRows()
	if err != nil {
		return err
	}
	log.Infow("Import metrics", "imported_rows", rows["imported"], "skipped_rows", rows["skipped"])

	if cfg.PushgatewayURL == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()
	if err := m.Push(ctx, cfg.PushgatewayURL, "spendbook_import"); err != nil {
		return err
	}
	log.Infow("Pushed import metrics", "gateway", cfg.PushgatewayURL)
	return nil
}
