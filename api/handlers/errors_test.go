package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "etsy-viewer-api/core/errors"
)

func TestToListingError(t *testing.T) {
	tests := []struct {
		name           string
		input          error
		expectedStatus int
		expectedMsg    string
		expectedDetail string
	}{
		{
			name:           "NotFoundError returns 404",
			input:          &domainerrors.NotFoundError{Resource: "listing", ID: "42"},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Listing not found",
			expectedDetail: "listing not found: 42",
		},
		{
			name:           "ValidationError returns 400",
			input:          &domainerrors.ValidationError{Field: "url", Message: "url must contain /listing/<id>"},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid Etsy listing URL",
			expectedDetail: "url must contain /listing/<id>",
		},
		{
			name:           "Etsy 429 stays 429",
			input:          &domainerrors.ExternalAPIError{StatusCode: 429, Message: "Too many requests", API: "etsy"},
			expectedStatus: http.StatusTooManyRequests,
			expectedMsg:    "Failed to fetch listing details from Etsy",
			expectedDetail: "Too many requests",
		},
		{
			name:           "Etsy 5xx becomes 502",
			input:          &domainerrors.ExternalAPIError{StatusCode: 503, Message: "unavailable", API: "etsy"},
			expectedStatus: http.StatusBadGateway,
			expectedMsg:    "Failed to fetch listing details from Etsy",
			expectedDetail: "unavailable",
		},
		{
			name:           "Etsy 403 becomes 502",
			input:          &domainerrors.ExternalAPIError{StatusCode: 403, Message: "Invalid API key", API: "etsy"},
			expectedStatus: http.StatusBadGateway,
			expectedMsg:    "Failed to fetch listing details from Etsy",
			expectedDetail: "Invalid API key",
		},
		{
			name:           "wrapped errors are unwrapped",
			input:          domainerrors.WrapError(&domainerrors.NotFoundError{Resource: "listing", ID: "7"}, "fetch listing 7"),
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Listing not found",
			expectedDetail: "listing not found: 7",
		},
		{
			name:           "ConfigurationError returns 503",
			input:          &domainerrors.ConfigurationError{Component: "listing provider", Message: "set ETSY_API_KEY"},
			expectedStatus: http.StatusServiceUnavailable,
			expectedMsg:    "Listing provider not configured",
			expectedDetail: "set ETSY_API_KEY",
		},
		{
			name:           "unknown error returns 500 without detail",
			input:          fmt.Errorf("database exploded"),
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := toListingError(tt.input)

			var le *ListingError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tt.expectedStatus, le.GetStatus())
			assert.Equal(t, tt.expectedMsg, le.Message)
			assert.Equal(t, tt.expectedDetail, le.Detail)
		})
	}

	assert.Nil(t, toListingError(nil))
}

func TestNewListingError(t *testing.T) {
	err := NewListingError(http.StatusUnprocessableEntity, "validation failed", errors.New("a"), nil, errors.New("b"))
	assert.Equal(t, http.StatusUnprocessableEntity, err.GetStatus())
	assert.Equal(t, "validation failed: a; b", err.Error())

	plain := NewListingError(http.StatusBadRequest, "bad")
	assert.Equal(t, "bad", plain.Error())
}
