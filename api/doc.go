// Package api provides the HTTP API layer for the Etsy listing viewer backend.
// It uses the Huma framework on a chi router for OpenAPI documentation and
// request validation.
//
// # Architecture
//
// - server.go: Huma API configuration, CORS and middleware
// - handlers/: Operation handlers and domain error mapping
// - middleware/: Request logging, request IDs and per-IP rate limiting
//
// # Endpoints
//
//	GET /                     plain-text greeting
//	GET /api/listing-details  listing details for ?url=<etsy listing url>
//	GET /openapi.json         OpenAPI document
//	GET /docs                 interactive documentation
//
// # Usage Example
//
//	limiter := middleware.NewRateLimiter(10, 20)
//	defer limiter.Stop()
//
//	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
//	    Logger:  logger,
//	    Limiter: limiter,
//	})
//	handlers.NewRootHandler().RegisterRoutes(humaAPI)
//	handlers.NewListingHandler(listingService, logger).RegisterRoutes(humaAPI)
//
//	http.ListenAndServe(":8080", router)
//
// # Error Handling
//
// Every error body has the same shape, which the viewer decodes:
//
//	{
//	    "message": "Listing not found",
//	    "error": "listing not found: 1234567890"
//	}
//
// Domain errors are mapped to status codes in handlers/errors.go.
package api
