package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache stores generated feed documents between requests in serve mode
type Cache interface {
	// Get returns ErrCacheMiss when key is absent
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value for ttl. A zero ttl stores nothing.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Close() error
}

// FeedKey identifies a generated feed by its listing page and item cap
func FeedKey(listingURL string, maxItems int) string {
	return fmt.Sprintf("announcements:feed:%s:%d", listingURL, maxItems)
}
