// ABOUTME: Listing service resolves Etsy listing URLs and returns listing details
// ABOUTME: Provides cache-aside lookup in front of the configured listing provider

package listing

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"etsy-viewer-api/core/domain"
	domainerrors "etsy-viewer-api/core/errors"
	"etsy-viewer-api/core/interfaces"
	"etsy-viewer-api/core/resolver"
)

// DefaultCacheTTL is used when the service is created with a non-positive TTL.
const DefaultCacheTTL = 5 * time.Minute

// ListingService looks up listing details for raw listing URLs
type ListingService struct {
	deps     interfaces.Dependencies
	provider interfaces.ListingProvider
	cacheTTL time.Duration
}

// NewListingService creates a new listing service instance.
// provider may be nil; lookups then fail with a ConfigurationError.
func NewListingService(deps interfaces.Dependencies, provider interfaces.ListingProvider, cacheTTL time.Duration) *ListingService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &ListingService{
		deps:     deps,
		provider: provider,
		cacheTTL: cacheTTL,
	}
}

// GetListingDetails resolves rawURL to a listing ID and returns its details
func (s *ListingService) GetListingDetails(ctx context.Context, rawURL string) (*domain.ListingDetails, error) {
	listingID, err := resolveListingID(rawURL)
	if err != nil {
		return nil, err
	}

	cached, err := s.getCachedListing(ctx, listingID)
	if err == nil && cached != nil {
		s.debug("Listing served from cache", map[string]interface{}{"listing_id": listingID})
		return cached, nil
	}
	if err != nil && !errors.Is(err, interfaces.ErrCacheMiss) {
		s.warn("Failed to read cached listing", map[string]interface{}{
			"listing_id": listingID,
			"error":      err.Error(),
		})
	}

	return s.fetchListing(ctx, listingID)
}

// RefreshListingDetails drops any cached entry for rawURL's listing and
// fetches it again from the provider
func (s *ListingService) RefreshListingDetails(ctx context.Context, rawURL string) (*domain.ListingDetails, error) {
	listingID, err := resolveListingID(rawURL)
	if err != nil {
		return nil, err
	}

	if err := s.Invalidate(ctx, listingID); err != nil {
		s.warn("Failed to invalidate cached listing", map[string]interface{}{
			"listing_id": listingID,
			"error":      err.Error(),
		})
	}

	return s.fetchListing(ctx, listingID)
}

// Invalidate drops the cached entry for a listing ID
func (s *ListingService) Invalidate(ctx context.Context, listingID string) error {
	if s.deps.Cache == nil {
		return nil
	}
	return s.deps.Cache.Delete(ctx, cacheKey(listingID))
}

func resolveListingID(rawURL string) (string, error) {
	if strings.TrimSpace(rawURL) == "" {
		return "", &domainerrors.ValidationError{Field: "url", Message: "url is required"}
	}

	listingID, ok := resolver.ExtractListingID(rawURL)
	if !ok {
		return "", &domainerrors.ValidationError{Field: "url", Message: "url must contain /listing/<id>"}
	}
	return listingID, nil
}

func (s *ListingService) fetchListing(ctx context.Context, listingID string) (*domain.ListingDetails, error) {
	if s.provider == nil {
		return nil, &domainerrors.ConfigurationError{
			Component: "listing provider",
			Message:   "set ETSY_API_KEY or enable the page fallback",
		}
	}

	details, err := s.provider.FetchListing(ctx, listingID)
	if err != nil {
		if s.deps.Logger != nil {
			s.deps.Logger.Error("Failed to fetch listing", map[string]interface{}{
				"listing_id": listingID,
				"error":      err.Error(),
			})
		}
		return nil, domainerrors.WrapError(err, "fetch listing "+listingID)
	}

	if err := s.cacheListing(ctx, listingID, details); err != nil {
		s.warn("Failed to cache listing", map[string]interface{}{
			"listing_id": listingID,
			"error":      err.Error(),
		})
	}

	return details, nil
}

func (s *ListingService) getCachedListing(ctx context.Context, listingID string) (*domain.ListingDetails, error) {
	if s.deps.Cache == nil {
		return nil, interfaces.ErrCacheMiss
	}

	data, err := s.deps.Cache.Get(ctx, cacheKey(listingID))
	if err != nil {
		return nil, err
	}

	var details domain.ListingDetails
	if err := json.Unmarshal(data, &details); err != nil {
		// Corrupt entry; drop it so the next lookup refetches.
		_ = s.deps.Cache.Delete(ctx, cacheKey(listingID))
		return nil, err
	}
	return &details, nil
}

func (s *ListingService) cacheListing(ctx context.Context, listingID string, details *domain.ListingDetails) error {
	if s.deps.Cache == nil || details == nil {
		return nil
	}

	data, err := json.Marshal(details)
	if err != nil {
		return err
	}
	return s.deps.Cache.Set(ctx, cacheKey(listingID), data, s.cacheTTL)
}

func (s *ListingService) warn(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Warn(msg, fields)
	}
}

func (s *ListingService) debug(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Debug(msg, fields)
	}
}

func cacheKey(listingID string) string {
	return "listing:" + listingID
}
