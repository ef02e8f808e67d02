package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"villa-predictor/internal/config"
	"villa-predictor/internal/handler"
	"villa-predictor/internal/metrics"
	"villa-predictor/internal/repository"
	"villa-predictor/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Print version info
	log.Printf("Villa Price Predictor")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Load model artifacts; failures leave the service in rule-based mode
	state := service.LoadEstimatorState(cfg.ModelPath(), cfg.ModelInfoPath())
	metrics.SetModelLoaded(state.ModelLoaded())

	pricingService := service.NewPricingService(
		state,
		cfg.Pricing.MinPrice,
		cfg.Pricing.Currency,
		cfg.Pricing.Period,
	)
	log.Printf("✅ Pricing initialized (floor: %.2f %s %s)", cfg.Pricing.MinPrice, cfg.Pricing.Currency, cfg.Pricing.Period)

	// Optional comparable villa store
	var store service.ListingStore
	if cfg.PostgreSQL.Enabled {
		repo, err := repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			log.Printf("⚠️  Comparable villas disabled: %v", err)
		} else {
			defer repo.Close()
			if err := repo.EnsureSchema(context.Background()); err != nil {
				log.Printf("⚠️  Comparable villas disabled: %v", err)
			} else {
				store = repo
				log.Println("✅ Connected to PostgreSQL database")

				if cfg.Redis.Enabled {
					rdb, err := repository.NewRedisClient(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
					if err != nil {
						log.Printf("⚠️  Comparable villa cache disabled: %v", err)
					} else {
						defer rdb.Close()
						store = repository.NewCachedListingStore(repo, rdb, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
						log.Printf("✅ Connected to Redis at %s", cfg.Redis.Addr)
					}
				}
			}
		}
	} else {
		log.Println("⚠️  PostgreSQL is not configured - comparable villa lookups will not work")
		log.Println("   Set DATABASE_URL environment variable to enable them")
	}

	ranker := service.NewRanker(cfg.Ranking.WeightSimilarity, cfg.Ranking.WeightPrice)
	comparablesService := service.NewComparablesService(store, pricingService, ranker)

	log.Println("✅ Services initialized")

	// Initialize handlers
	predictHandler := handler.NewPredictHandler(pricingService)
	comparablesHandler := handler.NewComparablesHandler(
		comparablesService,
		cfg.Comparables.DefaultLimit,
		cfg.Comparables.MaxLimit,
	)

	// Setup Gin router
	router := gin.Default()
	router.Use(handler.RequestIDMiddleware())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = config.SplitList(cfg.Server.AllowedOrigins)
	corsConfig.AllowMethods = config.SplitList(cfg.Server.AllowedMethods)
	corsConfig.AllowHeaders = config.SplitList(cfg.Server.AllowedHeaders)
	corsConfig.ExposeHeaders = []string{handler.RequestIDHeader, handler.FallbackHeader}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":       "healthy",
			"service":      "villa-price-predictor",
			"model_loaded": state.ModelLoaded(),
			"version":      Version,
			"build_time":   BuildTime,
			"git_commit":   GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	handler.RegisterRoutes(router, predictHandler, comparablesHandler)

	// Unknown paths: JSON 404 for the API, a frontend hint otherwise
	setupFallbackRoutes(router)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API: http://localhost:%d/api/v1", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped")
}
