// Package unsplash implements the image provider client used to fetch random
// wallpapers by search query.
package unsplash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrRateLimited signals the provider's documented quota-exceeded response.
// Callers treat it as "no results" but log it differently from generic
// failures.
var ErrRateLimited = errors.New("unsplash: rate limit exceeded")

// DefaultBaseURL is the public Unsplash API endpoint.
const DefaultBaseURL = "https://api.unsplash.com"

// Photo is a single provider result: the provider-assigned id and the
// display URL.
type Photo struct {
	ID  string
	URL string
}

// Client defines the provider operations used by the cache manager and the
// prefetch loop.
type Client interface {
	// RandomPhotos fetches up to count random photos matching the query.
	RandomPhotos(ctx context.Context, query string, count int) ([]Photo, error)
}

// Options configures the HTTP client.
type Options struct {
	AccessKey   string
	BaseURL     string
	Orientation string
	Timeout     time.Duration
}

type httpClient struct {
	accessKey   string
	baseURL     string
	orientation string
	client      *http.Client
	log         *slog.Logger
}

// NewClient creates a provider client. The access key is required; base URL,
// orientation, and timeout fall back to sensible defaults.
func NewClient(opts Options, log *slog.Logger) (Client, error) {
	if opts.AccessKey == "" {
		return nil, fmt.Errorf("unsplash access key is required")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Orientation == "" {
		opts.Orientation = "portrait"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}

	return &httpClient{
		accessKey:   opts.AccessKey,
		baseURL:     opts.BaseURL,
		orientation: opts.Orientation,
		client:      &http.Client{Timeout: opts.Timeout},
		log:         log.With("component", "unsplash_client"),
	}, nil
}

// randomPhotoResponse mirrors the subset of the provider's /photos/random
// payload that the bot uses.
type randomPhotoResponse struct {
	ID   string `json:"id"`
	URLs struct {
		Regular string `json:"regular"`
	} `json:"urls"`
}

// RandomPhotos fetches up to count random photos matching the query. Each
// call costs exactly one provider request regardless of count.
func (c *httpClient) RandomPhotos(ctx context.Context, query string, count int) ([]Photo, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}

	req, err := c.buildRequest(ctx, query, count)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decoding

	case http.StatusForbidden:
		// Unsplash answers 403 when the hourly quota is spent.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.WarnContext(ctx, "Provider quota exceeded", "query", query, "body", string(body))
		return nil, ErrRateLimited

	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unsplash returned status %d: %s", resp.StatusCode, string(body))
	}

	var items []randomPhotoResponse
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	photos := make([]Photo, 0, len(items))
	for _, item := range items {
		if item.ID == "" || item.URLs.Regular == "" {
			c.log.WarnContext(ctx, "Skipping provider result with missing fields", "query", query)
			continue
		}
		photos = append(photos, Photo{ID: item.ID, URL: item.URLs.Regular})
	}

	c.log.DebugContext(ctx, "Fetched random photos", "query", query, "requested", count, "returned", len(photos))
	return photos, nil
}

func (c *httpClient) buildRequest(ctx context.Context, query string, count int) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/photos/random", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("count", strconv.Itoa(count))
	params.Set("orientation", c.orientation)
	req.URL.RawQuery = params.Encode()

	req.Header.Set("Accept-Version", "v1")
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)

	return req, nil
}
