package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lanwatch-dev/lanwatch/db"
	"github.com/lanwatch-dev/lanwatch/internal/auth"
	"github.com/lanwatch-dev/lanwatch/internal/config"
	"github.com/lanwatch-dev/lanwatch/internal/handlers"
	"github.com/lanwatch-dev/lanwatch/internal/incidents"
	"github.com/lanwatch-dev/lanwatch/internal/router"
	"github.com/lanwatch-dev/lanwatch/internal/scheduler"
	"github.com/lanwatch-dev/lanwatch/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)

	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	if err := db.ConnectDatabase(os.Getenv("DATABASE_DSN")); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT: %v", err)
	}

	if err := handlers.InitAdminPassword(); err != nil {
		log.Fatalf("Failed to initialize admin password: %v", err)
	}

	manager := incidents.NewManager(db.DB)
	manager.SetNotifier(services.NewWebhookNotifier(db.DB, cfg.Webhooks))

	sched := scheduler.New(cfg, db.DB, manager)
	sched.OnRefresh(handlers.BroadcastRefresh)

	handlers.Configure(manager, sched.State())

	sched.Start()

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router.NewRouter(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down gracefully...")

	// Stop the check loops first so every open incident gets closed
	// before the store handle is released.
	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB.DB(); err == nil {
		sqlDB.Close()
	}

	log.Println("Shutdown complete")
}
