package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nDmitry/titckfeed/internal/app"
	"github.com/nDmitry/titckfeed/internal/cache"
	"github.com/nDmitry/titckfeed/internal/entity"
	"github.com/nDmitry/titckfeed/internal/scraper"
)

// Scraper collects announcement records from a listing page
type Scraper interface {
	Scrape(ctx context.Context, listingURL string, maxItems int) ([]entity.Record, error)
}

// Generator renders records as a feed document
type Generator interface {
	Generate(meta *entity.ChannelMeta, records []entity.Record) ([]byte, error)
}

// FeedHandler serves the announcement feed
type FeedHandler struct {
	cache     cache.Cache
	scraper   Scraper
	generator Generator
	cfg       *entity.Config
	logger    *slog.Logger
}

// NewFeedHandler creates a FeedHandler and registers its routes on mux
func NewFeedHandler(mux *http.ServeMux, c cache.Cache, s Scraper, g Generator, cfg *entity.Config) *FeedHandler {
	handler := &FeedHandler{
		cache:     c,
		scraper:   s,
		generator: g,
		cfg:       cfg,
		logger:    app.Logger(),
	}

	mux.HandleFunc("GET /feed", handler.GetFeed)

	return handler
}

// GetFeed handles requests for the announcement feed
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	params, err := entity.NewFeedParamFromRequest(r, h.cfg.MaxItems)

	if err != nil {
		h.handleError(w, err, http.StatusBadRequest)
		return
	}

	cacheKey := cache.FeedKey(h.cfg.ListingURL, params.MaxItems)

	if params.CacheTTL > 0 {
		cachedContent, cacheErr := h.cache.Get(r.Context(), cacheKey)

		if cacheErr == nil {
			w.Header().Set("X-CACHE-STATUS", "HIT")
			h.serveContent(w, cachedContent, params.CacheTTL)
			return
		} else if !errors.Is(cacheErr, cache.ErrCacheMiss) {
			h.logger.Error("Cache error", "error", cacheErr)
		}
	}

	records, err := h.scraper.Scrape(r.Context(), h.cfg.ListingURL, params.MaxItems)

	if err != nil {
		status := http.StatusInternalServerError

		if errors.Is(err, scraper.ErrListingUnavailable) {
			status = http.StatusBadGateway
		}

		h.handleError(w, err, status)
		return
	}

	content, err := h.generator.Generate(&h.cfg.Channel, records)

	if err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}

	if params.CacheTTL > 0 {
		cacheTTL := time.Duration(params.CacheTTL) * time.Minute

		// Use background context for caching to avoid cancellation
		cacheCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.cache.Set(cacheCtx, cacheKey, content, cacheTTL); err != nil {
			h.logger.Error("Failed to cache content", "error", err)
		}
	}

	w.Header().Set("X-CACHE-STATUS", "MISS")
	h.serveContent(w, content, params.CacheTTL)
}

func (h *FeedHandler) serveContent(w http.ResponseWriter, content []byte, cacheTTL int) {
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")

	if cacheTTL > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", cacheTTL*60))
	} else {
		w.Header().Set("Cache-Control", "no-cache")
	}

	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(content); err != nil {
		h.logger.Error("Failed to write feed", "error", err)
	}
}

func (h *FeedHandler) handleError(w http.ResponseWriter, err error, statusCode int) {
	h.logger.Error("Request error", "error", err, "status", statusCode)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := map[string]string{"error": err.Error()}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode an error response", "error", err, "response", response)
	}
}
