package entity

import (
	"fmt"
	"net/http"
	"strconv"
)

const CacheTTLDefault = 60 // minutes

// FeedParams represents validated request parameters for feed generation
type FeedParams struct {
	// MaxItems caps the number of announcements in the feed
	MaxItems int

	// CacheTTL is the cache time-to-live in minutes
	// A value of 0 means no caching
	CacheTTL int
}

// NewFeedParamFromRequest parses and validates request parameters and creates a new FeedParams
func NewFeedParamFromRequest(r *http.Request, defaultMaxItems int) (*FeedParams, error) {
	qp := r.URL.Query()

	maxItems := defaultMaxItems

	if maxStr := qp.Get("max_items"); maxStr != "" {
		var err error
		maxItems, err = strconv.Atoi(maxStr)

		if err != nil {
			return nil, fmt.Errorf("max_items must be a valid integer")
		}

		if maxItems <= 0 {
			return nil, fmt.Errorf("max_items must be positive")
		}
	}

	// Parse cache TTL with default
	cacheTTL := CacheTTLDefault

	if ttlStr := qp.Get("cache_ttl"); ttlStr != "" {
		var err error
		cacheTTL, err = strconv.Atoi(ttlStr)

		if err != nil {
			return nil, fmt.Errorf("cache_ttl must be a valid integer")
		}

		if cacheTTL < 0 {
			return nil, fmt.Errorf("cache_ttl must be non-negative")
		}
	}

	return &FeedParams{
		MaxItems: maxItems,
		CacheTTL: cacheTTL,
	}, nil
}
