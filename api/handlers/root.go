// ABOUTME: Liveness route that answers GET / with a plain-text greeting
// ABOUTME: Kept byte-for-byte stable because clients check the exact body

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RootGreeting is the body served at GET /
const RootGreeting = "Hello from the backend!"

// RootHandler serves the backend greeting
type RootHandler struct{}

// NewRootHandler creates a new root handler
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// RegisterRoutes registers the root route
func (h *RootHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getRoot",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Backend greeting",
		Tags:        []string{"Health"},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "Plain-text greeting",
				Content: map[string]*huma.MediaType{
					"text/plain": {Schema: &huma.Schema{Type: huma.TypeString}},
				},
			},
		},
	}, h.GetRoot)
}

// RootOutput is a raw text/plain body
type RootOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// GetRoot handles GET /
func (h *RootHandler) GetRoot(ctx context.Context, _ *struct{}) (*RootOutput, error) {
	return &RootOutput{
		ContentType: "text/plain; charset=utf-8",
		Body:        []byte(RootGreeting),
	}, nil
}
