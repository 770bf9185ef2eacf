// ABOUTME: Main entry point for the Etsy listing viewer backend
// ABOUTME: Wires together cache, listing providers and HTTP routes, then starts the server

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"etsy-viewer-api/api"
	"etsy-viewer-api/api/handlers"
	"etsy-viewer-api/api/middleware"
	"etsy-viewer-api/core/interfaces"
	"etsy-viewer-api/core/listing"
	"etsy-viewer-api/infrastructure/cache/memory"
	"etsy-viewer-api/infrastructure/cache/redis"
	"etsy-viewer-api/infrastructure/cache/sqlite"
	"etsy-viewer-api/infrastructure/etsy"
	stdhttp "etsy-viewer-api/infrastructure/http/standard"
	logruslogger "etsy-viewer-api/infrastructure/logger/logrus"
	"etsy-viewer-api/pkg/config"
	"etsy-viewer-api/pkg/featureflags"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logruslogger.New(logruslogger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})

	flags := featureflags.NewEnvManager("FEATURE_")
	ctx := context.Background()

	logger.Info("Starting Etsy Listing Viewer API", map[string]interface{}{
		"port":       cfg.Server.Port,
		"cache_type": cfg.Cache.Type,
		"cache_ttl":  cfg.Cache.TTL.String(),
		"features":   flags.GetAllFlags(),
	})

	var cache interfaces.Cache
	if flags.IsEnabled(ctx, featureflags.ListingCache) {
		var closer io.Closer
		cache, closer = newCache(cfg, logger)
		if closer != nil {
			defer closer.Close()
		}
	} else {
		logger.Info("Listing cache disabled", nil)
	}

	// Etsy calls go through the retrying client; outgoing requests are logged
	httpClient := stdhttp.NewStandardHTTPClient(30*time.Second,
		stdhttp.WithTransport(&middleware.LoggingRoundTripper{
			Transport: http.DefaultTransport,
			Logger:    logger,
		}),
	)

	deps := interfaces.Dependencies{
		Cache:      cache,
		HTTPClient: httpClient,
		Logger:     logger,
	}

	provider := newProvider(ctx, cfg, flags, deps)
	listingService := listing.NewListingService(deps, provider, cfg.Cache.TTL)

	apiConfig := api.APIConfig{Logger: logger}
	if flags.IsEnabled(ctx, featureflags.RateLimit) {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		if err := limiter.TrustProxies(cfg.RateLimit.TrustedProxies...); err != nil {
			log.Fatalf("Invalid TRUSTED_PROXIES: %v", err)
		}
		defer limiter.Stop()
		apiConfig.Limiter = limiter
		logger.Info("Rate limiting enabled", map[string]interface{}{
			"requests_per_second": cfg.RateLimit.RequestsPerSecond,
			"burst":               cfg.RateLimit.Burst,
			"trusted_proxies":     cfg.RateLimit.TrustedProxies,
		})
	}
	humaAPI, router := api.NewAPIWithMiddleware(apiConfig)

	handlers.NewRootHandler().RegisterRoutes(humaAPI)
	handlers.NewListingHandler(listingService, logger).RegisterRoutes(humaAPI)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Server stopped", nil)
}

// newCache builds the configured cache, falling back to memory when the
// backing store is unreachable. The closer is nil for the memory cache.
func newCache(cfg *config.Config, logger interfaces.Logger) (interfaces.Cache, io.Closer) {
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := redis.NewRedisCache(cfg.Cache.Redis)
		if err != nil {
			logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			return memory.NewMemoryCache(), nil
		}
		logger.Info("Using Redis cache", map[string]interface{}{
			"address": cfg.Cache.Redis.Address,
		})
		return redisCache, redisCache
	case "sqlite":
		sqliteCache, err := sqlite.NewSQLiteCache(cfg.Cache.SQLite.Path, logger)
		if err != nil {
			logger.Error("Failed to open SQLite cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
				"path":  cfg.Cache.SQLite.Path,
			})
			return memory.NewMemoryCache(), nil
		}
		logger.Info("Using SQLite cache", map[string]interface{}{
			"path": cfg.Cache.SQLite.Path,
		})
		return sqliteCache, sqliteCache
	default:
		logger.Info("Using memory cache", nil)
		return memory.NewMemoryCache(), nil
	}
}

// newProvider picks the Etsy API when a key is configured, otherwise the
// page scraper if allowed. A nil provider makes lookups answer 503.
func newProvider(ctx context.Context, cfg *config.Config, flags featureflags.Manager, deps interfaces.Dependencies) interfaces.ListingProvider {
	if cfg.Etsy.APIKey != "" {
		deps.Logger.Info("Using Etsy Open API provider", map[string]interface{}{
			"base_url": cfg.Etsy.APIBaseURL,
		})
		return etsy.NewAPIClient(deps.HTTPClient, cfg.Etsy.APIBaseURL, cfg.Etsy.APIKey, deps.Logger)
	}

	if flags.IsEnabled(ctx, featureflags.PageFallback) {
		deps.Logger.Warn("ETSY_API_KEY not set, reading public listing pages instead", map[string]interface{}{
			"site_url": cfg.Etsy.SiteBaseURL,
		})
		return etsy.NewPageScraper(deps.HTTPClient, cfg.Etsy.SiteBaseURL, deps.Logger)
	}

	deps.Logger.Warn("No listing provider configured; /api/listing-details will return 503", nil)
	return nil
}

func init() {
	fmt.Println(`
    ______  __                _    ___                       
   / ____/ / /_____  __  __  | |  / (_)__ _      _____  _____
  / __/   / __/ ___// / / /  | | / / / _ \ | /| / / _ \/ ___/
 / /___  / /_(__  )/ /_/ /   | |/ / /  __/ |/ |/ /  __/ /    
/_____/  \__/____/ \__, /    |___/_/\___/|__/|__/\___/_/     
                  /____/                                     
	`)
}
