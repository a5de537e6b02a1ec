package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"medistock/m/internal/api"
	"medistock/m/internal/config"
	"medistock/m/internal/database"
	"medistock/m/internal/migrations"
	"medistock/m/internal/receipt"
	"medistock/m/internal/seed"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseDSN)
	defer db.Close()

	migrations.Run(db)
	if cfg.CatalogCSV != "" {
		seed.LoadCatalog(db, cfg.CatalogCSV)
	}

	handler := api.New(db, cfg.Secret, receipt.NewWriter(cfg.ReceiptDir))

	log.Printf("MediStock server starting on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
