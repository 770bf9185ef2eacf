// Package core contains the business logic for the Etsy listing viewer backend.
// It does not depend on any web framework or storage technology.
//
// The core package is organized into several sub-packages:
//
// - domain: Listing models shared by the backend and the viewer
// - resolver: Extracts the listing ID from a free-form listing URL
// - listing: Cache-aside listing lookup in front of a ListingProvider
// - errors: Custom error types mapped to HTTP statuses by the API layer
// - interfaces: Contracts for external dependencies (cache, HTTP, logger, providers)
//
// # Usage Example
//
//	import (
//	    "etsy-viewer-api/core/interfaces"
//	    "etsy-viewer-api/core/listing"
//	)
//
//	deps := interfaces.Dependencies{
//	    Cache:      myCache,      // implements interfaces.Cache, may be nil
//	    HTTPClient: myHTTPClient, // implements interfaces.HTTPClient
//	    Logger:     myLogger,     // implements interfaces.Logger
//	}
//
//	service := listing.NewListingService(deps, provider, 5*time.Minute)
//	details, err := service.GetListingDetails(ctx,
//	    "https://www.etsy.com/listing/1234567890/handmade-mug")
package core
