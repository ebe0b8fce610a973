package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/winklab/wink-backend/internal/config"
	"github.com/winklab/wink-backend/internal/db"
)

func main() {
	_ = godotenv.Load()

	cfg := config.New()

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}

	if err := db.SeedDemoData(database); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}
}
