// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/checkout"
	"github.com/your-org/grocery-backend/internal/domain/inventory"
	"github.com/your-org/grocery-backend/internal/domain/ledger"
	"github.com/your-org/grocery-backend/internal/domain/order"
	"github.com/your-org/grocery-backend/internal/domain/reservation"
	"github.com/your-org/grocery-backend/internal/domain/warehouse"
	"github.com/your-org/grocery-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/grocery-backend/internal/infrastructure/database/redis"
	"github.com/your-org/grocery-backend/internal/interfaces/http"
	"github.com/your-org/grocery-backend/internal/interfaces/http/routes"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	// Connect to database
	db, err := postgres.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Health check
	if err := db.Health(); err != nil {
		log.Fatalf("Database health check failed: %v", err)
	}

	if err := redisClient.Health(); err != nil {
		log.Fatalf("Redis health check failed: %v", err)
	}

	// Run database migrations
	migration := postgres.NewMigration(db.GetDB())

	if err := migration.RunAutoMigrations(); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	if err := migration.CreateIndexes(); err != nil {
		log.Printf("Warning: Index creation failed: %v", err)
	}

	// Seed initial data in development
	if cfg.IsDevelopment() {
		if err := migration.SeedInitialData(); err != nil {
			log.Printf("Warning: Data seeding failed: %v", err)
		}
		migration.GetTableInfo()
	}

	logger := newLogger(cfg)

	// Wire domain services
	warehouseRepo := warehouse.NewRepository(db.GetDB())
	warehouseService := warehouse.NewService(warehouseRepo, cfg)
	directory := warehouse.NewDirectory(warehouseRepo, redisClient.GetClient())

	inventoryRepo := inventory.NewRepository(db.GetDB())
	inventoryService := inventory.NewService(inventoryRepo, cfg)

	ledgerRepo := ledger.NewRepository(db.GetDB())
	ledgerService := ledger.NewService(ledgerRepo, cfg)

	reservationRepo := reservation.NewRepository(db.GetDB())
	reservationManager := reservation.NewManager(
		reservationRepo, inventoryService, ledger.NewOrderSettler(ledgerService), cfg, logger)

	orderRepo := order.NewRepository(db.GetDB())
	checkoutService := checkout.NewService(directory, reservationManager, orderRepo, cfg, logger)

	services := &routes.Services{
		Warehouse:    warehouseService,
		Directory:    directory,
		Inventory:    inventoryService,
		Reservations: reservationManager,
		Ledger:       ledgerService,
		Checkout:     checkoutService,
	}

	// Start the reservation expiry sweeper
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	sweeper := reservation.NewSweeper(reservationManager, cfg.Reservation.SweepInterval, logger)
	go sweeper.Run(sweepCtx)

	log.Println("✅ All systems operational!")

	// Create and start HTTP server
	server := http.NewServer(cfg, db.GetDB(), redisClient.GetClient(), services)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("👋 Shutting down gracefully...")

	stopSweeper()

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.Printf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	log.Println("✅ Server shutdown completed")
}

// newLogger builds the application logger from config
func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
