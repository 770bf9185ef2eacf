// ABOUTME: Listing details handler resolves an Etsy listing URL to its details
// ABOUTME: Serves GET /api/listing-details for the viewer frontend

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"etsy-viewer-api/core/domain"
	"etsy-viewer-api/core/interfaces"
)

// ListingHandler handles listing lookups
type ListingHandler struct {
	service interfaces.ListingService
	logger  interfaces.Logger
}

// NewListingHandler creates a new listing handler
func NewListingHandler(service interfaces.ListingService, logger interfaces.Logger) *ListingHandler {
	return &ListingHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers listing routes
func (h *ListingHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getListingDetails",
		Method:      http.MethodGet,
		Path:        "/api/listing-details",
		Summary:     "Get listing details",
		Description: "Resolves an Etsy listing URL and returns the listing's title, price, quantity, description, images and link",
		Tags:        []string{"Listings"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable},
	}, h.GetListingDetails)
}

// ListingDetailsInput is the query for a listing lookup.
// url is validated by the handler so a missing value gets the same body shape as other errors.
type ListingDetailsInput struct {
	URL     string `query:"url" doc:"Etsy listing URL containing /listing/<id>" example:"https://www.etsy.com/listing/1234567890/handmade-mug"`
	Refresh bool   `query:"refresh" doc:"Skip the cached copy and fetch the listing again"`
}

// ListingDetailsOutput wraps the listing
type ListingDetailsOutput struct {
	Body *domain.ListingDetails
}

// GetListingDetails handles GET /api/listing-details
func (h *ListingHandler) GetListingDetails(ctx context.Context, input *ListingDetailsInput) (*ListingDetailsOutput, error) {
	if strings.TrimSpace(input.URL) == "" {
		return nil, &ListingError{
			Status:  http.StatusBadRequest,
			Message: "Missing required query parameter",
			Detail:  "url",
		}
	}

	lookup := h.service.GetListingDetails
	if input.Refresh {
		lookup = h.service.RefreshListingDetails
	}

	listing, err := lookup(ctx, input.URL)
	if err != nil {
		apiErr := toListingError(err)
		if le, ok := apiErr.(*ListingError); ok && le.Status >= 500 && h.logger != nil {
			h.logger.Error("Listing lookup failed", map[string]interface{}{
				"url":     input.URL,
				"refresh": input.Refresh,
				"status":  le.Status,
				"error":   err.Error(),
			})
		}
		return nil, apiErr
	}

	return &ListingDetailsOutput{Body: listing}, nil
}
