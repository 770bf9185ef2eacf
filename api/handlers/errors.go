// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts domain errors to {message, error} JSON bodies with matching status codes

package handlers

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "etsy-viewer-api/core/errors"
)

// ListingError is the error body returned by every operation.
// The viewer reads message and, when present, error.
type ListingError struct {
	Status  int    `json:"-"`
	Message string `json:"message" doc:"Human readable summary"`
	Detail  string `json:"error,omitempty" doc:"Underlying cause"`
}

// Error implements the error interface
func (e *ListingError) Error() string {
	if e.Detail == "" {
		return e.Message
	}
	return e.Message + ": " + e.Detail
}

// GetStatus implements huma.StatusError
func (e *ListingError) GetStatus() int {
	return e.Status
}

var _ huma.StatusError = (*ListingError)(nil)

// Framework-generated errors (bad parameters, unknown routes) use the
// listing error body too. huma.NewError is process-wide, so it is set
// once here rather than per API instance.
func init() {
	huma.NewError = NewListingError
}

// NewListingError matches huma.NewError so framework-generated errors
// (validation, unsupported media type) share the same body shape.
func NewListingError(status int, msg string, errs ...error) huma.StatusError {
	le := &ListingError{Status: status, Message: msg}
	for _, err := range errs {
		if err == nil {
			continue
		}
		if le.Detail != "" {
			le.Detail += "; "
		}
		le.Detail += err.Error()
	}
	return le
}

// toListingError converts domain errors to HTTP errors
func toListingError(err error) error {
	if err == nil {
		return nil
	}

	var notFound *domainerrors.NotFoundError
	if errors.As(err, &notFound) {
		return &ListingError{Status: http.StatusNotFound, Message: "Listing not found", Detail: notFound.Error()}
	}

	var validation *domainerrors.ValidationError
	if errors.As(err, &validation) {
		return &ListingError{Status: http.StatusBadRequest, Message: "Invalid Etsy listing URL", Detail: validation.Message}
	}

	var apiErr *domainerrors.ExternalAPIError
	if errors.As(err, &apiErr) {
		status := http.StatusBadGateway
		if apiErr.StatusCode == http.StatusTooManyRequests {
			status = http.StatusTooManyRequests
		}
		return &ListingError{Status: status, Message: "Failed to fetch listing details from Etsy", Detail: apiErr.Message}
	}

	var cfgErr *domainerrors.ConfigurationError
	if errors.As(err, &cfgErr) {
		return &ListingError{Status: http.StatusServiceUnavailable, Message: "Listing provider not configured", Detail: cfgErr.Message}
	}

	return &ListingError{Status: http.StatusInternalServerError, Message: "Internal server error"}
}
