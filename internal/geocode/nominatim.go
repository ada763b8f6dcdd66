// Package geocode resolves postal codes to coordinates.
// Lookups either return coordinates or fail with domain.ErrLocationNotFound
// or domain.ErrGeocoderUnavailable; callers decide whether a failure matters.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/sethvargo/go-retry"

	"github.com/pkordes/cafe-recs/backend/internal/domain"
)

// Defaults for the public Nominatim service.
const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "CafeApp"
	DefaultCountry   = "USA"

	defaultTimeout      = 5 * time.Second
	defaultRetryBase    = 200 * time.Millisecond
	defaultMaxRetries   = 2
	maxErrorBodyPreview = 256
)

// Geocoder maps a postal code to a location.
type Geocoder interface {
	Lookup(ctx context.Context, postalCode string) (domain.Coordinates, error)
}

// Option configures a Nominatim client.
type Option func(*Nominatim)

// WithHTTPClient replaces the default pooled HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(n *Nominatim) {
		if c != nil {
			n.client = c
		}
	}
}

// WithTimeout sets the per-attempt HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(n *Nominatim) {
		if d > 0 {
			n.client.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header; Nominatim's usage policy requires one.
func WithUserAgent(ua string) Option {
	return func(n *Nominatim) {
		if ua != "" {
			n.userAgent = ua
		}
	}
}

// WithCountry restricts lookups to a country name or code.
func WithCountry(country string) Option {
	return func(n *Nominatim) {
		if country != "" {
			n.country = country
		}
	}
}

// WithRetry sets the exponential backoff base and the maximum number of retries.
func WithRetry(base time.Duration, maxRetries uint64) Option {
	return func(n *Nominatim) {
		if base > 0 {
			n.retryBase = base
		}
		n.maxRetries = maxRetries
	}
}

// Nominatim is a Geocoder backed by the OpenStreetMap Nominatim search API.
type Nominatim struct {
	baseURL    string
	userAgent  string
	country    string
	client     *http.Client
	retryBase  time.Duration
	maxRetries uint64
}

// NewNominatim constructs a client for the Nominatim instance at baseURL.
func NewNominatim(baseURL string, opts ...Option) *Nominatim {
	client := cleanhttp.DefaultPooledClient()
	client.Timeout = defaultTimeout

	n := &Nominatim{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  DefaultUserAgent,
		country:    DefaultCountry,
		client:     client,
		retryBase:  defaultRetryBase,
		maxRetries: defaultMaxRetries,
	}
	if n.baseURL == "" {
		n.baseURL = DefaultBaseURL
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// searchResult is the subset of a jsonv2 search result we read.
// Nominatim encodes coordinates as strings.
type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Lookup resolves postalCode to the coordinates of its first search result.
// Timeouts, transport errors, 429 and 5xx responses are retried with
// exponential backoff before giving up with domain.ErrGeocoderUnavailable.
func (n *Nominatim) Lookup(ctx context.Context, postalCode string) (domain.Coordinates, error) {
	q := url.Values{}
	q.Set("postalcode", postalCode)
	q.Set("country", n.country)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")
	endpoint := n.baseURL + "/search?" + q.Encode()

	var coords domain.Coordinates
	backoff := retry.WithMaxRetries(n.maxRetries, retry.NewExponential(n.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		c, err := n.fetch(ctx, endpoint)
		if err != nil {
			return err
		}
		coords = c
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrLocationNotFound) {
			return domain.Coordinates{}, fmt.Errorf("geocode.Nominatim.Lookup: %s: %w", postalCode, err)
		}
		return domain.Coordinates{}, fmt.Errorf("geocode.Nominatim.Lookup: %w: %w", domain.ErrGeocoderUnavailable, err)
	}
	return coords, nil
}

// fetch performs one search request. Errors worth retrying are wrapped with
// retry.RetryableError; everything else stops the retry loop immediately.
func (n *Nominatim) fetch(ctx context.Context, endpoint string) (domain.Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Coordinates{}, err
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Coordinates{}, ctx.Err()
		}
		return domain.Coordinates{}, retry.RetryableError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return domain.Coordinates{}, retry.RetryableError(fmt.Errorf("upstream status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return domain.Coordinates{}, fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode response: %w", err)
	}
	if len(results) == 0 {
		return domain.Coordinates{}, domain.ErrLocationNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("parse lat %q: %w", preview(results[0].Lat), err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("parse lon %q: %w", preview(results[0].Lon), err)
	}
	return domain.Coordinates{Lat: lat, Lon: lon}, nil
}

func preview(s string) string {
	if len(s) > maxErrorBodyPreview {
		return s[:maxErrorBodyPreview]
	}
	return s
}
