package rest_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nDmitry/titckfeed/internal/api/rest"
	"github.com/nDmitry/titckfeed/internal/cache"
	"github.com/nDmitry/titckfeed/internal/config"
	"github.com/nDmitry/titckfeed/internal/entity"
	"github.com/nDmitry/titckfeed/internal/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssBody = "<?xml version=\"1.0\" encoding=\"UTF-8\"?><rss version=\"2.0\"><channel><title>TİTCK</title></channel></rss>"

// MockScraper is a mock implementation of the Scraper interface
type MockScraper struct {
	ScrapeFunc func(ctx context.Context, listingURL string, maxItems int) ([]entity.Record, error)
}

func (m *MockScraper) Scrape(ctx context.Context, listingURL string, maxItems int) ([]entity.Record, error) {
	return m.ScrapeFunc(ctx, listingURL, maxItems)
}

// MockGenerator is a mock implementation of the Generator interface
type MockGenerator struct {
	GenerateFunc func(meta *entity.ChannelMeta, records []entity.Record) ([]byte, error)
}

func (m *MockGenerator) Generate(meta *entity.ChannelMeta, records []entity.Record) ([]byte, error) {
	return m.GenerateFunc(meta, records)
}

// MockCache is a mock implementation of the Cache interface
type MockCache struct {
	GetFunc func(ctx context.Context, key string) ([]byte, error)
	SetFunc func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	return m.GetFunc(ctx, key)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.SetFunc(ctx, key, value, ttl)
}

func (m *MockCache) Close() error {
	return nil
}

func TestFeedHandler_GetFeed(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		name               string
		url                string
		setupMocks         func(cache *MockCache, scraper *MockScraper, generator *MockGenerator)
		expectedStatusCode int
		expectedHeaders    map[string]string
		expectedBodyPart   string
	}{
		{
			name: "Successful feed generation with cache miss",
			url:  "/feed?max_items=5&cache_ttl=60",
			setupMocks: func(mockCache *MockCache, mockScraper *MockScraper, mockGenerator *MockGenerator) {
				mockCache.GetFunc = func(_ context.Context, key string) ([]byte, error) {
					assert.Equal(t, cache.FeedKey(cfg.ListingURL, 5), key)
					return nil, cache.ErrCacheMiss
				}

				mockScraper.ScrapeFunc = func(_ context.Context, listingURL string, maxItems int) ([]entity.Record, error) {
					assert.Equal(t, cfg.ListingURL, listingURL)
					assert.Equal(t, 5, maxItems)
					return []entity.Record{{Title: "Duyuru", Link: "https://titck.gov.tr/duyuru/a-1"}}, nil
				}

				mockGenerator.GenerateFunc = func(meta *entity.ChannelMeta, records []entity.Record) ([]byte, error) {
					assert.Equal(t, cfg.Channel.Title, meta.Title)
					assert.Len(t, records, 1)
					return []byte(rssBody), nil
				}

				mockCache.SetFunc = func(_ context.Context, _ string, value []byte, ttl time.Duration) error {
					assert.Equal(t, rssBody, string(value))
					assert.Equal(t, time.Hour, ttl)
					return nil
				}
			},
			expectedStatusCode: http.StatusOK,
			expectedHeaders: map[string]string{
				"Content-Type":   "application/rss+xml; charset=utf-8",
				"Cache-Control":  "public, max-age=3600",
				"X-CACHE-STATUS": "MISS",
			},
			expectedBodyPart: "<rss version=\"2.0\">",
		},
		{
			name: "Cache hit",
			url:  "/feed",
			setupMocks: func(mockCache *MockCache, mockScraper *MockScraper, mockGenerator *MockGenerator) {
				mockCache.GetFunc = func(_ context.Context, key string) ([]byte, error) {
					assert.Equal(t, cache.FeedKey(cfg.ListingURL, cfg.MaxItems), key)
					return []byte(rssBody), nil
				}

				mockScraper.ScrapeFunc = func(_ context.Context, _ string, _ int) ([]entity.Record, error) {
					t.Fatal("Scraper should not be called on cache hit")
					return nil, nil
				}

				mockGenerator.GenerateFunc = func(_ *entity.ChannelMeta, _ []entity.Record) ([]byte, error) {
					t.Fatal("Generator should not be called on cache hit")
					return nil, nil
				}
			},
			expectedStatusCode: http.StatusOK,
			expectedHeaders: map[string]string{
				"Content-Type":   "application/rss+xml; charset=utf-8",
				"Cache-Control":  "public, max-age=3600",
				"X-CACHE-STATUS": "HIT",
			},
			expectedBodyPart: "<rss version=\"2.0\">",
		},
		{
			name: "Cache error falls back to scraping",
			url:  "/feed",
			setupMocks: func(mockCache *MockCache, mockScraper *MockScraper, mockGenerator *MockGenerator) {
				mockCache.GetFunc = func(_ context.Context, _ string) ([]byte, error) {
					return nil, errors.New("connection reset")
				}

				mockScraper.ScrapeFunc = func(_ context.Context, _ string, _ int) ([]entity.Record, error) {
					return []entity.Record{}, nil
				}

				mockGenerator.GenerateFunc = func(_ *entity.ChannelMeta, _ []entity.Record) ([]byte, error) {
					return []byte(rssBody), nil
				}

				mockCache.SetFunc = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
					return errors.New("connection reset")
				}
			},
			expectedStatusCode: http.StatusOK,
			expectedHeaders: map[string]string{
				"X-CACHE-STATUS": "MISS",
			},
			expectedBodyPart: "<rss version=\"2.0\">",
		},
		{
			name: "No links on the listing page",
			url:  "/feed",
			setupMocks: func(mockCache *MockCache, mockScraper *MockScraper, mockGenerator *MockGenerator) {
				mockCache.GetFunc = func(_ context.Context, _ string) ([]byte, error) {
					return nil, cache.ErrCacheMiss
				}

				mockScraper.ScrapeFunc = func(_ context.Context, _ string, _ int) ([]entity.Record, error) {
					return nil, scraper.ErrNoLinks
				}

				mockGenerator.GenerateFunc = func(_ *entity.ChannelMeta, _ []entity.Record) ([]byte, error) {
					t.Fatal("Generator should not be called when scraper returns error")
					return nil, nil
				}
			},
			expectedStatusCode: http.StatusInternalServerError,
			expectedHeaders: map[string]string{
				"Content-Type": "application/json",
			},
			expectedBodyPart: "no announcement links found",
		},
		{
			name: "Listing page unavailable",
			url:  "/feed?cache_ttl=0",
			setupMocks: func(_ *MockCache, mockScraper *MockScraper, _ *MockGenerator) {
				mockScraper.ScrapeFunc = func(_ context.Context, _ string, _ int) ([]entity.Record, error) {
					return nil, fmt.Errorf("%w: timeout", scraper.ErrListingUnavailable)
				}
			},
			expectedStatusCode: http.StatusBadGateway,
			expectedHeaders: map[string]string{
				"Content-Type": "application/json",
			},
			expectedBodyPart: "listing page unavailable",
		},
		{
			name: "Generator error",
			url:  "/feed?cache_ttl=0",
			setupMocks: func(_ *MockCache, mockScraper *MockScraper, mockGenerator *MockGenerator) {
				mockScraper.ScrapeFunc = func(_ context.Context, _ string, _ int) ([]entity.Record, error) {
					return []entity.Record{}, nil
				}

				mockGenerator.GenerateFunc = func(_ *entity.ChannelMeta, _ []entity.Record) ([]byte, error) {
					return nil, errors.New("generator error")
				}
			},
			expectedStatusCode: http.StatusInternalServerError,
			expectedHeaders: map[string]string{
				"Content-Type": "application/json",
			},
			expectedBodyPart: "generator error",
		},
		{
			name: "No caching with cache_ttl=0",
			url:  "/feed?cache_ttl=0",
			setupMocks: func(mockCache *MockCache, mockScraper *MockScraper, mockGenerator *MockGenerator) {
				mockCache.GetFunc = func(_ context.Context, _ string) ([]byte, error) {
					t.Fatal("Cache Get should not be called when cache_ttl=0")
					return nil, nil
				}

				mockScraper.ScrapeFunc = func(_ context.Context, _ string, _ int) ([]entity.Record, error) {
					return []entity.Record{}, nil
				}

				mockGenerator.GenerateFunc = func(_ *entity.ChannelMeta, _ []entity.Record) ([]byte, error) {
					return []byte(rssBody), nil
				}

				mockCache.SetFunc = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
					t.Fatal("Cache Set should not be called when cache_ttl=0")
					return nil
				}
			},
			expectedStatusCode: http.StatusOK,
			expectedHeaders: map[string]string{
				"Content-Type":   "application/rss+xml; charset=utf-8",
				"Cache-Control":  "no-cache",
				"X-CACHE-STATUS": "MISS",
			},
			expectedBodyPart: "<rss version=\"2.0\">",
		},
		{
			name:               "Invalid max items",
			url:                "/feed?max_items=lots",
			setupMocks:         func(_ *MockCache, _ *MockScraper, _ *MockGenerator) {},
			expectedStatusCode: http.StatusBadRequest,
			expectedHeaders: map[string]string{
				"Content-Type": "application/json",
			},
			expectedBodyPart: "max_items must be a valid integer",
		},
		{
			name:               "Invalid cache TTL",
			url:                "/feed?cache_ttl=invalid",
			setupMocks:         func(_ *MockCache, _ *MockScraper, _ *MockGenerator) {},
			expectedStatusCode: http.StatusBadRequest,
			expectedHeaders: map[string]string{
				"Content-Type": "application/json",
			},
			expectedBodyPart: "cache_ttl must be a valid integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCache := &MockCache{}
			mockScraper := &MockScraper{}
			mockGenerator := &MockGenerator{}
			tt.setupMocks(mockCache, mockScraper, mockGenerator)

			mux := http.NewServeMux()
			rest.NewFeedHandler(mux, mockCache, mockScraper, mockGenerator, cfg)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatusCode, rec.Code)

			for key, value := range tt.expectedHeaders {
				assert.Equal(t, value, rec.Header().Get(key))
			}

			body, err := io.ReadAll(rec.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), tt.expectedBodyPart)
		})
	}
}

func TestServer_HandlerLogsAndRoutes(t *testing.T) {
	cfg := config.Default()
	mockCache := &MockCache{
		GetFunc: func(_ context.Context, _ string) ([]byte, error) {
			return []byte(rssBody), nil
		},
	}

	server := rest.NewServer(mockCache, &MockScraper{}, &MockGenerator{}, cfg, "0")

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-CACHE-STATUS"))

	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
