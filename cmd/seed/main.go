package main

import (
	"context"
	"log"

	"kindled/internal/config"
	"kindled/internal/database"
	"kindled/internal/logger"
	"kindled/internal/repository"
	"kindled/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()
	slogger := logger.Setup(cfg)

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Seed the builtin plan catalog
	plans := repository.NewPlanRepository(database.NewStore(db))
	catalog := service.NewCatalogService(plans, slogger)
	if err := catalog.SeedBuiltinPlans(context.Background()); err != nil {
		log.Fatalf("Failed to seed plan catalog: %v", err)
	}

	log.Println("Plan catalog seeded")
}
