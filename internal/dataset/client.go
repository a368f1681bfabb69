package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"watchhub/pkg/models"
)

// The two failure kinds the lookup boundary tells apart. Everything the
// client returns wraps one of these.
var (
	ErrFetch  = errors.New("dataset: fetch failed")
	ErrDecode = errors.New("dataset: decode failed")
)

// Client downloads the community watch-order document.
type Client struct {
	URL    string
	Client *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		URL: url,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch performs the single GET and decodes the document.
func (c *Client) Fetch(ctx context.Context) ([]models.Series, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrFetch, err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: do request: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", ErrFetch, resp.StatusCode, string(body))
	}

	var series []models.Series
	if err := json.NewDecoder(resp.Body).Decode(&series); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return series, nil
}
