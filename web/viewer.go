// ABOUTME: Viewer holds one session's lookup state and runs submissions
// ABOUTME: Resolves the listing ID locally before making a single backend call

package web

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"etsy-viewer-api/core/domain"
	"etsy-viewer-api/core/resolver"
)

// User-facing error messages
const (
	InvalidURLMessage   = "Invalid Etsy Listing URL format. Please ensure it contains '/listing/...' followed by numbers."
	GenericFetchMessage = "Failed to fetch listing data. Check the console or backend server logs."
)

// State is a snapshot of a viewer session
type State struct {
	URL     string
	Loading bool
	Error   string
	Details *domain.ListingDetails
}

// ListingFetcher is what the viewer needs from the backend client
type ListingFetcher interface {
	FetchListing(ctx context.Context, rawURL string) (*domain.ListingDetails, error)
}

// Viewer runs lookups for a single session. State may be read while a
// submission is in flight.
type Viewer struct {
	fetcher ListingFetcher

	mu    sync.Mutex
	state State
}

// NewViewer creates a viewer with an empty state
func NewViewer(fetcher ListingFetcher) *Viewer {
	return &Viewer{fetcher: fetcher}
}

// State returns a copy of the current state
func (v *Viewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Submit looks up rawURL and returns the resulting state. A call made while
// another submission is loading is ignored and returns the current state.
func (v *Viewer) Submit(ctx context.Context, rawURL string) State {
	v.mu.Lock()
	if v.state.Loading {
		st := v.state
		v.mu.Unlock()
		return st
	}
	v.state = State{URL: rawURL}

	if _, ok := resolver.ExtractListingID(rawURL); !ok {
		v.state.Error = InvalidURLMessage
		st := v.state
		v.mu.Unlock()
		return st
	}

	v.state.Loading = true
	v.mu.Unlock()

	details, err := v.fetcher.FetchListing(ctx, rawURL)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Loading = false
	if err != nil {
		v.state.Error = FormatError(err)
	} else {
		v.state.Details = details
	}
	return v.state
}

// FormatError renders a lookup failure as the message shown to the user
func FormatError(err error) string {
	var fe *FetchError
	if !errors.As(err, &fe) || !fe.Structured {
		return GenericFetchMessage
	}
	if fe.HasDetail {
		return fmt.Sprintf("Error: %s (%s)", fe.Message, fe.Detail)
	}
	return fmt.Sprintf("Error: %s ", fe.Message)
}
