package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinicdesk/booking-platform/internal/adapters/cache"
	"github.com/clinicdesk/booking-platform/internal/adapters/database"
	"github.com/clinicdesk/booking-platform/internal/adapters/events"
	"github.com/clinicdesk/booking-platform/internal/api/handlers"
	"github.com/clinicdesk/booking-platform/internal/api/routes"
	"github.com/clinicdesk/booking-platform/internal/application/scheduling"
	"github.com/clinicdesk/booking-platform/internal/domain/providers"
	"github.com/clinicdesk/booking-platform/internal/domain/repositories"
	"github.com/clinicdesk/booking-platform/internal/infrastructure/clients/postgres"
	"github.com/clinicdesk/booking-platform/internal/infrastructure/clients/redis"
	"github.com/clinicdesk/booking-platform/internal/infrastructure/observability"
	"github.com/clinicdesk/booking-platform/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client (event feed + roster cache)
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize Redis client: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis client initialized successfully")

	// Initialize adapters
	bookingAdapter := database.NewBookingAdapter(pgClient)
	serviceAdapter := database.NewServiceAdapter(pgClient)
	clinicAdapter := database.NewClinicAdapter(pgClient)

	cacheProvider := cache.NewRedisAdapter(redisClient)
	var staffAdapter repositories.StaffRepository = database.NewStaffAdapter(pgClient)
	staffAdapter = database.NewCachedStaffAdapter(staffAdapter, cacheProvider, cfg.Scheduling.RosterCacheTTLSec)

	var eventBus providers.EventBus = events.NewRedisEventBus(redisClient)
	defer eventBus.Close()

	// Initialize the scheduling engine
	engine := scheduling.NewEngine(bookingAdapter, staffAdapter, serviceAdapter, clinicAdapter, eventBus, scheduling.EngineConfig{
		BookingSlot:  time.Duration(cfg.Scheduling.BookingSlotMinutes) * time.Minute,
		CalendarSlot: time.Duration(cfg.Scheduling.CalendarSlotMinutes) * time.Minute,
	})
	defer engine.Close()

	// Initialize handlers
	availabilityHandler := handlers.NewAvailabilityHandler(engine)
	bookingHandler := handlers.NewBookingHandler(engine)
	streamHandler := handlers.NewStreamHandler(eventBus)

	// Set up router
	router := routes.NewRouter(availabilityHandler, bookingHandler, streamHandler, metrics)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE endpoint needs unbounded writes
		IdleTimeout:  120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("API server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("API server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("API server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("API server stopped")
}
