// @title Petition Matching Server API
// @version 1.0
// @description Petition signature verification: voter roll uploads, OCR extraction and fuzzy matching with live progress streaming.

// @contact.name API Support

// @host localhost:9999
// @BasePath /api
// @schemes http

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"petitionserver/database"
	"petitionserver/internal/config"
	"petitionserver/ocr"
	"petitionserver/server"
)

func main() {
	log.Println("Starting petition matching server...")

	// Base configuration from env, needed for the database paths
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dbConfig := database.DBConfig{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}

	votersDB, err := database.NewVotersDBWithConfig(cfg.VotersDatabasePath, dbConfig)
	if err != nil {
		log.Fatalf("Failed to open voters database at %s: %v", cfg.VotersDatabasePath, err)
	}
	log.Printf("Voters database: %s", cfg.VotersDatabasePath)

	serviceDB, err := database.NewServiceDB(cfg.ServiceDatabasePath)
	if err != nil {
		log.Fatalf("Failed to open service database at %s: %v", cfg.ServiceDatabasePath, err)
	}
	log.Printf("Service database: %s", cfg.ServiceDatabasePath)

	// Reload configuration from the service database when a snapshot was
	// persisted there
	cfg, err = config.LoadConfig(serviceDB)
	if err != nil {
		log.Fatalf("Failed to load configuration from database: %v", err)
	}

	// First start: seed the service database with the env configuration
	if stored, _ := serviceDB.GetAppConfig(); stored == "" {
		if err := cfg.Save(serviceDB, "startup", "initial configuration from environment"); err != nil {
			log.Printf("Warning: failed to persist initial config: %v", err)
		}
	}

	if err := os.MkdirAll(cfg.TempDir, 0o755); err != nil {
		log.Fatalf("Failed to create temp directory %s: %v", cfg.TempDir, err)
	}

	srv := server.NewServer(cfg, votersDB, serviceDB, ocr.NewTesseractExtractor(cfg.OCRLanguage))

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()
	log.Printf("API available at http://localhost:%s", cfg.Port)
	log.Printf("Swagger UI at http://localhost:%s/swagger/index.html", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
