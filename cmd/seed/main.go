package main

import (
	"context"
	"log"
	"os"
	"time"

	"zlecenia/internal/config"
	"zlecenia/internal/database"
	"zlecenia/internal/repository"
	"zlecenia/internal/seeder"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)
	s := seeder.New(
		repository.NewPostgresListingRepository(db),
		repository.NewPostgresUserRepository(db),
		logger,
	)
	if err := s.Run(ctx); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
}
