// ABOUTME: HTTP routes for the viewer frontend
// ABOUTME: Renders the lookup form and runs one Viewer submission per POST

package web

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"etsy-viewer-api/api/middleware"
	"etsy-viewer-api/core/interfaces"
)

// Handler serves the viewer page
type Handler struct {
	fetcher ListingFetcher
	logger  interfaces.Logger
}

// NewHandler creates a viewer handler backed by fetcher
func NewHandler(fetcher ListingFetcher, logger interfaces.Logger) *Handler {
	return &Handler{fetcher: fetcher, logger: logger}
}

// Routes returns the frontend router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	if h.logger != nil {
		r.Use(middleware.RequestLoggingMiddleware(h.logger))
	}

	r.Get("/", h.index)
	r.Post("/", h.submit)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	return r
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	h.render(w, State{})
}

// submit runs a lookup for the posted url field. Each request is its own
// session, so the request context bounds the backend call.
func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	rawURL := r.PostForm.Get("url")
	st := NewViewer(h.fetcher).Submit(r.Context(), rawURL)

	if st.Error != "" && h.logger != nil {
		h.logger.Warn("Listing lookup failed", map[string]interface{}{
			"request_id": middleware.RequestIDFromContext(r.Context()),
			"url":        rawURL,
			"error":      st.Error,
		})
	}

	h.render(w, st)
}

func (h *Handler) render(w http.ResponseWriter, st State) {
	var buf bytes.Buffer
	if err := Render(&buf, st); err != nil {
		if h.logger != nil {
			h.logger.Error("Failed to render page", map[string]interface{}{"error": err.Error()})
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
