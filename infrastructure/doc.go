// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package: caches, the outbound HTTP client, logging and
// the Etsy listing providers.
//
// The infrastructure package is organized by technical concern:
//
// - cache/memory: In-memory cache backed by patrickmn/go-cache
// - cache/redis: Redis-based cache using go-redis
// - cache/sqlite: File-backed cache using go-sqlite3
// - etsy: Listing providers for the Etsy Open API and public listing pages
// - http/standard: net/http client with retry logic
// - logger/logrus: Structured logger on logrus with optional file rotation
//
// # Cache Implementations
//
// Memory Cache Example:
//
//	cache := memory.NewMemoryCache()
//	err := cache.Set(ctx, "listing:123", []byte("{}"), 5*time.Minute)
//	value, err := cache.Get(ctx, "listing:123")
//
// SQLite Cache Example:
//
//	cache, err := sqlite.NewSQLiteCache("cache.db", logger)
//	defer cache.Close()
//
// # HTTP Client
//
// The HTTP client retries network errors and 5xx responses:
//
//	client := standard.NewStandardHTTPClient(30 * time.Second)
//	resp, err := client.Get(ctx, "https://openapi.etsy.com/v3/application/listings/1", nil)
//	if err != nil {
//	    // Handle error
//	}
//	defer resp.Body().Close()
//
// A single-shot client for callers that must not retry:
//
//	client := standard.NewStandardHTTPClient(0, standard.WithMaxAttempts(1))
package infrastructure
