// ABOUTME: Backend client used by the viewer to fetch listing details
// ABOUTME: Issues a single GET per lookup and decodes structured error bodies

package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"etsy-viewer-api/core/domain"
	"etsy-viewer-api/core/interfaces"
)

// ListingDetailsPath is the backend route the viewer calls
const ListingDetailsPath = "/api/listing-details"

const maxResponseSize = 5 * 1024 * 1024

// FetchError describes a failed lookup
type FetchError struct {
	// StatusCode is 0 when no response was received
	StatusCode int

	// Structured is true when the response body carried a usable message
	Structured bool
	Message    string

	// HasDetail reports whether the body's error field was usable
	HasDetail bool
	Detail    string

	Cause error
}

func (e *FetchError) Error() string {
	switch {
	case e.Structured && e.HasDetail:
		return fmt.Sprintf("backend returned %d: %s (%s)", e.StatusCode, e.Message, e.Detail)
	case e.Structured:
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	case e.Cause != nil:
		return "listing request failed: " + e.Cause.Error()
	default:
		return fmt.Sprintf("backend returned %d", e.StatusCode)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Client fetches listing details from the backend
type Client struct {
	http    interfaces.HTTPClient
	baseURL string
}

// NewClient creates a backend client. httpClient should not retry.
func NewClient(httpClient interfaces.HTTPClient, baseURL string) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// FetchListing asks the backend for the listing behind rawURL.
// rawURL is sent unmodified apart from query escaping. A nil listing with a
// nil error means the backend answered 2xx with a JSON null.
func (c *Client) FetchListing(ctx context.Context, rawURL string) (*domain.ListingDetails, error) {
	endpoint := c.baseURL + ListingDetailsPath + "?url=" + url.QueryEscape(rawURL)

	resp, err := c.http.Get(ctx, endpoint, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, &FetchError{Cause: err}
	}
	body := resp.Body()
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxResponseSize))
	status := resp.StatusCode()
	if err != nil {
		return nil, &FetchError{StatusCode: status, Cause: err}
	}

	if status < 200 || status >= 300 {
		return nil, decodeErrorBody(status, data)
	}

	var listing *domain.ListingDetails
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, &FetchError{StatusCode: status, Cause: fmt.Errorf("decode listing: %w", err)}
	}
	return listing, nil
}

// decodeErrorBody reads {message, error} from a failed response. Fields
// count only when truthy: null, false, 0, "" and NaN are ignored.
func decodeErrorBody(status int, data []byte) *FetchError {
	fe := &FetchError{StatusCode: status}

	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return fe
	}

	msg, ok := truthyString(payload["message"])
	if !ok {
		return fe
	}
	fe.Structured = true
	fe.Message = msg
	fe.Detail, fe.HasDetail = truthyString(payload["error"])
	return fe
}

// truthyString reports whether v is truthy and renders it as a template
// literal would.
func truthyString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case bool:
		return jsString(t), t
	case float64:
		return jsString(t), t != 0
	case string:
		return t, t != ""
	default:
		return jsString(t), true
	}
}

// jsString mirrors String(v) for decoded JSON values; nil renders empty as
// it does inside an array join.
func jsString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	case []interface{}:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = jsString(item)
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}
