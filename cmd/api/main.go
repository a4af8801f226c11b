package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/IANDYI/care-log/internal/adapters/handler"
	"github.com/IANDYI/care-log/internal/adapters/middleware"
	"github.com/IANDYI/care-log/internal/adapters/repository"
	"github.com/IANDYI/care-log/internal/config"
	"github.com/IANDYI/care-log/internal/core/engine"
	"github.com/IANDYI/care-log/internal/core/growth"
	"github.com/IANDYI/care-log/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database with retry logic
	db, err := config.ConnectDatabase(cfg.DatabaseURL, 5, 2*time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := config.InitDatabase(db, cfg.DropTablesOnStartup); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}

	// Growth reference table, swapped on reload
	table, err := growth.LoadOrDefault(cfg.GrowthReferencePath)
	if err != nil {
		log.Fatalf("Failed to load growth reference table: %v", err)
	}
	references := growth.NewStore(table)
	log.Printf("Growth reference loaded: %s", table.Source())

	validator := engine.New(growth.NewEngine(references))

	// Initialize RabbitMQ publisher
	alertPublisher, err := repository.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.AlertsQueueName, cfg.BreakerSettings())
	if err != nil {
		log.Fatalf("Failed to initialize RabbitMQ publisher: %v", err)
	}
	defer alertPublisher.Close()

	// Initialize repositories
	sqlRepo := repository.NewSQLRepository(db, cfg.BreakerSettings())

	// Initialize services
	profileService := services.NewProfileService(sqlRepo, validator)
	eventService := services.NewEventService(sqlRepo, sqlRepo, validator, alertPublisher)
	referenceService := services.NewReferenceService(references, cfg.GrowthReferencePath)

	// Profile creation requests arrive from the identity service via RabbitMQ
	profileConsumer, err := repository.NewProfileConsumer(cfg.RabbitMQURL, cfg.ProfileQueueName, profileService)
	if err != nil {
		log.Fatalf("Failed to initialize RabbitMQ profile consumer: %v", err)
	}
	defer profileConsumer.Close()

	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()
	if err := profileConsumer.StartConsuming(consumerCtx); err != nil {
		log.Printf("Profile consumer error: %v", err)
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTPublicKey)
	defer authMiddleware.Stop()

	router := handler.Router{
		Auth:       authMiddleware,
		Health:     handler.NewHealthHandler(db, references),
		Profiles:   handler.NewProfileHandler(profileService),
		Events:     handler.NewEventHandler(eventService),
		References: handler.NewReferenceHandler(referenceService),
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting care log service on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// SIGHUP reloads the growth reference table; SIGINT/SIGTERM shut down
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range signals {
		if sig != syscall.SIGHUP {
			break
		}
		reloadCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if _, err := referenceService.Reload(reloadCtx); err != nil {
			log.Printf("Growth reference reload failed, keeping current table: %v", err)
		}
		cancel()
	}

	log.Println("Shutting down server...")

	// Stop consuming before the HTTP server drains
	consumerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
