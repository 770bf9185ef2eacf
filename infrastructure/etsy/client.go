// ABOUTME: Etsy Open API v3 listing provider
// ABOUTME: Fetches a listing with its images and maps upstream failures to core error types

package etsy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	domainerrors "etsy-viewer-api/core/errors"
	"etsy-viewer-api/core/domain"
	"etsy-viewer-api/core/interfaces"
)

const (
	apiName = "etsy"

	// maxBodySize caps how much of an upstream body is read
	maxBodySize = 5 * 1024 * 1024
)

// APIClient implements interfaces.ListingProvider against the Etsy Open API
type APIClient struct {
	http    interfaces.HTTPClient
	baseURL string
	apiKey  string
	logger  interfaces.Logger
}

var _ interfaces.ListingProvider = (*APIClient)(nil)

// NewAPIClient creates an API-backed listing provider
func NewAPIClient(httpClient interfaces.HTTPClient, baseURL, apiKey string, logger interfaces.Logger) *APIClient {
	return &APIClient{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		logger:  logger,
	}
}

// FetchListing returns the listing and its images
func (c *APIClient) FetchListing(ctx context.Context, listingID string) (*domain.ListingDetails, error) {
	endpoint := fmt.Sprintf("%s/v3/application/listings/%s?includes=Images", c.baseURL, url.PathEscape(listingID))

	resp, err := c.http.Get(ctx, endpoint, map[string]string{
		"x-api-key": c.apiKey,
		"Accept":    "application/json",
	})
	if err != nil {
		return nil, &domainerrors.ExternalAPIError{
			StatusCode: http.StatusBadGateway,
			Message:    err.Error(),
			API:        apiName,
		}
	}
	body := resp.Body()
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxBodySize))
	if err != nil {
		return nil, &domainerrors.ExternalAPIError{
			StatusCode: http.StatusBadGateway,
			Message:    "failed to read response: " + err.Error(),
			API:        apiName,
		}
	}

	status := resp.StatusCode()
	if status == http.StatusNotFound {
		return nil, &domainerrors.NotFoundError{Resource: "listing", ID: listingID}
	}
	if status < 200 || status >= 300 {
		msg := upstreamMessage(data)
		if msg == "" {
			msg = http.StatusText(status)
		}
		if c.logger != nil {
			c.logger.Warn("Etsy API returned an error", map[string]interface{}{
				"listing_id": listingID,
				"status":     status,
				"error":      msg,
			})
		}
		return nil, &domainerrors.ExternalAPIError{StatusCode: status, Message: msg, API: apiName}
	}

	var listing domain.ListingDetails
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, &domainerrors.ExternalAPIError{
			StatusCode: http.StatusBadGateway,
			Message:    "invalid listing payload: " + err.Error(),
			API:        apiName,
		}
	}

	return &listing, nil
}

// upstreamMessage extracts Etsy's {"error": "..."} text, if any
func upstreamMessage(data []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return payload.Error
}
