// ABOUTME: Service interfaces for the core business logic
// ABOUTME: Defines contracts for listing lookup used by the API layer

package interfaces

import (
	"context"

	"etsy-viewer-api/core/domain"
)

// ListingProvider fetches listing details from an upstream source
// (the Etsy Open API or the public listing page).
type ListingProvider interface {
	// FetchListing returns the details of the listing with the given numeric ID.
	FetchListing(ctx context.Context, listingID string) (*domain.ListingDetails, error)
}

// ListingService resolves a raw listing URL and returns its details.
type ListingService interface {
	GetListingDetails(ctx context.Context, rawURL string) (*domain.ListingDetails, error)

	// RefreshListingDetails bypasses any cached copy and refetches the listing.
	RefreshListingDetails(ctx context.Context, rawURL string) (*domain.ListingDetails, error)
}
