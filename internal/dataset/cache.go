package dataset

import (
	"context"
	"errors"
	"log"
	"sync"

	"watchhub/internal/metrics"
	"watchhub/pkg/models"
)

// Cache holds the dataset for the lifetime of the process. The fetch
// happens on first use; failures are never cached, so the next caller
// retries. There is no refresh or invalidation.
type Cache struct {
	mu     sync.Mutex
	client *Client
	series []models.Series
	loaded bool
}

func NewCache(client *Client) *Cache {
	return &Cache{client: client}
}

// GetOrFetch returns the cached dataset, downloading it on first use.
// Concurrent first calls may both fetch; the content is identical, so
// whichever write lands last wins.
func (c *Cache) GetOrFetch(ctx context.Context) ([]models.Series, error) {
	c.mu.Lock()
	if c.loaded {
		s := c.series
		c.mu.Unlock()
		return s, nil
	}
	c.mu.Unlock()

	series, err := c.client.Fetch(ctx)
	if err != nil {
		metrics.DatasetFetches.WithLabelValues(fetchResultLabel(err)).Inc()
		return nil, err
	}
	metrics.DatasetFetches.WithLabelValues("ok").Inc()

	c.mu.Lock()
	c.series = series
	c.loaded = true
	c.mu.Unlock()

	log.Printf("[dataset] cached %d series from %s", len(series), c.client.URL)
	return series, nil
}

// Cached reports whether a dataset is held.
func (c *Cache) Cached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Len returns the number of cached series, 0 while empty.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.series)
}

func fetchResultLabel(err error) string {
	switch {
	case errors.Is(err, ErrDecode):
		return "decode_error"
	case errors.Is(err, ErrFetch):
		return "fetch_error"
	default:
		return "error"
	}
}
