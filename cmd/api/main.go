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

	"github.com/mbengwi/pharmafind/backend/internal/adapters/cache"
	"github.com/mbengwi/pharmafind/backend/internal/adapters/database"
	"github.com/mbengwi/pharmafind/backend/internal/adapters/providers/geolocation"
	"github.com/mbengwi/pharmafind/backend/internal/adapters/search"
	"github.com/mbengwi/pharmafind/backend/internal/api/handlers"
	"github.com/mbengwi/pharmafind/backend/internal/api/routes"
	"github.com/mbengwi/pharmafind/backend/internal/application/services"
	"github.com/mbengwi/pharmafind/backend/internal/domain/providers"
	"github.com/mbengwi/pharmafind/backend/internal/domain/repositories"
	"github.com/mbengwi/pharmafind/backend/internal/infrastructure/clients/postgres"
	"github.com/mbengwi/pharmafind/backend/internal/infrastructure/clients/redis"
	"github.com/mbengwi/pharmafind/backend/internal/infrastructure/clients/typesense"
	"github.com/mbengwi/pharmafind/backend/internal/infrastructure/observability"
	"github.com/mbengwi/pharmafind/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
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

	// Initialize Redis client; the service degrades to uncached operation
	// without it
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize Typesense client; searches fall back to Postgres without it
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Warning: Failed to initialize Typesense client: %v", err)
	} else {
		log.Println("Typesense client initialized successfully")
	}

	// Initialize adapters
	offerAdapter := database.NewOfferAdapter(pgClient)
	pharmacyAdapter := database.NewPharmacyAdapter(pgClient)
	ratingAdapter := database.NewRatingAdapter(pgClient)
	analyticsAdapter := database.NewSearchAnalyticsAdapter(pgClient)

	var searchRepo repositories.OfferSearchRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := adapter.InitSchema(ctx); err != nil {
			log.Printf("Warning: Failed to init Typesense schema: %v", err)
		}
		searchRepo = adapter
	}

	var geolocationProvider providers.GeolocationProvider
	switch cfg.Geolocation.Provider {
	case "nominatim":
		geolocationProvider = geolocation.NewNominatimProviderWithOptions(
			cfg.Geolocation.UserAgent,
			cacheProvider,
			cfg.Geolocation.NominatimURL,
			cfg.Geolocation.IPLookupURL,
			nil,
		)
	default:
		log.Println("Using mock geolocation provider")
		geolocationProvider = geolocation.NewMockGeolocationProvider()
	}

	// Initialize services
	searchService := services.NewDrugSearchService(
		offerAdapter,
		searchRepo,
		analyticsAdapter,
		cfg.Search.DefaultRadiusKm,
	)
	pharmacyService := services.NewPharmacyService(pharmacyAdapter, offerAdapter)
	ratingService := services.NewRatingService(ratingAdapter, pharmacyAdapter)
	estimator := services.NewDeliveryEstimator(cfg.Search.CurrencyCode)
	projection := services.NewMapProjection()

	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(searchService, estimator, projection, metrics)
	pharmacyHandler := handlers.NewPharmacyHandler(pharmacyService, estimator, projection, cfg.Search.DefaultRadiusKm)
	deliveryHandler := handlers.NewDeliveryHandler(estimator)
	ratingHandler := handlers.NewRatingHandler(ratingService)
	geolocationHandler := handlers.NewGeolocationHandler(geolocationProvider)

	// Set up router
	router := routes.NewRouter(
		searchHandler,
		pharmacyHandler,
		deliveryHandler,
		ratingHandler,
		geolocationHandler,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server stopped")
}
