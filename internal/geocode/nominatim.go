package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/metroatlas/metroatlas-server/internal/config"
	"github.com/metroatlas/metroatlas-server/internal/ratelimit"
)

const (
	// Nominatim's usage policy allows at most one request per second;
	// the default config stays under that.
	defaultBurst = 1

	limiterKey = "nominatim"
)

// Nominatim is a rate-limited client for the Nominatim search API.
type Nominatim struct {
	http      *http.Client
	limiter   *ratelimit.KeyedRateLimiter
	baseURL   string
	userAgent string
	logger    *slog.Logger
}

// NewNominatim creates a client from geocoder configuration.
func NewNominatim(cfg config.GeocoderConfig, logger *slog.Logger) *Nominatim {
	return &Nominatim{
		http: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		limiter:   ratelimit.New(cfg.RequestsPerSec, defaultBurst),
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

// Lookup resolves a place query against the search endpoint. The rate
// limiter is waited on here, not on cache hits, so cached answers are
// never throttled.
func (n *Nominatim) Lookup(ctx context.Context, query string) (Location, error) {
	if err := n.limiter.Wait(ctx, limiterKey); err != nil {
		return Location{}, wrapError("lookup", query, fmt.Errorf("rate limit wait: %w", err))
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Location{}, wrapError("lookup", query, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", n.userAgent)

	n.logger.Debug("geocode request", "query", query)

	resp, err := n.http.Do(req)
	if err != nil {
		return Location{}, wrapError("lookup", query, fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Location{}, wrapError("lookup", query, fmt.Errorf("read response: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests:
		return Location{}, wrapError("lookup", query, ErrRateLimited)
	case resp.StatusCode >= 500:
		return Location{}, wrapError("lookup", query, ErrServer)
	default:
		return Location{}, wrapError("lookup", query, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body)))
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.Unmarshal(body, &results); err != nil {
		return Location{}, wrapError("lookup", query, fmt.Errorf("decode response: %w", err))
	}
	if len(results) == 0 {
		return Location{}, wrapError("lookup", query, ErrNoResult)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Location{}, wrapError("lookup", query, fmt.Errorf("parse latitude %q: %w", results[0].Lat, err))
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Location{}, wrapError("lookup", query, fmt.Errorf("parse longitude %q: %w", results[0].Lon, err))
	}

	return Location{Lat: lat, Lon: lon}, nil
}
