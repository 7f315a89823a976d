// internal/tile/fetcher.go - Tile fetching implementation
package tile

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/paulmach/orb/geojson"

	"github.com/danielsivyer4567/parcelmeter/internal"
	"github.com/danielsivyer4567/parcelmeter/internal/config"
)

// HTTPFetcher implements the Fetcher interface using HTTP requests
type HTTPFetcher struct {
	client    *http.Client
	config    *config.ServerConfig
	userAgent string
	cache     *gocache.Cache
}

// NewHTTPFetcher creates a new HTTP-based tile fetcher
func NewHTTPFetcher(cfg *config.Config) *HTTPFetcher {
	transport := &http.Transport{
		MaxIdleConns:        cfg.Network.MaxIdleConns,
		IdleConnTimeout:     cfg.Network.IdleConnTimeout,
		DisableKeepAlives:   cfg.Network.DisableKeepAlive,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	// Configure proxy if specified
	if cfg.Network.ProxyURL != "" {
		if proxyURL, err := url.Parse(cfg.Network.ProxyURL); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	client := &http.Client{
		Timeout:   cfg.Server.Timeout,
		Transport: transport,
	}

	var cache *gocache.Cache
	if cfg.Cache.Enabled {
		cache = gocache.New(cfg.Cache.Expiration, cfg.Cache.Cleanup)
	}

	return &HTTPFetcher{
		client:    client,
		config:    &cfg.Server,
		userAgent: cfg.Network.UserAgent,
		cache:     cache,
	}
}

// Fetch retrieves a single tile's feature data from the configured server
func (f *HTTPFetcher) Fetch(ctx context.Context, request *Request) (*Response, error) {
	start := time.Now()

	if f.cache != nil {
		if cached, found := f.cache.Get(request.Key.String()); found {
			return cached.(*Response), nil
		}
	}

	req, err := f.buildHTTPRequest(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, internal.NewError(internal.ErrorCodeNetwork, fmt.Sprintf("tile %s request failed", request.Key), err)
	}
	defer resp.Body.Close()

	// Handle compressed responses
	var reader io.Reader = resp.Body
	if strings.Contains(resp.Header.Get("Content-Encoding"), "gzip") {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, internal.NewError(internal.ErrorCodeNetwork,
			fmt.Sprintf("tile %s returned HTTP %d", request.Key, resp.StatusCode), nil)
	}

	// A body that is not valid JSON, or that lacks a features field, is
	// treated the same as a fetch failure so one bad tile cannot abort a
	// whole viewport batch.
	features, err := ParseFeatures(data)
	if err != nil {
		return nil, fmt.Errorf("tile %s body invalid: %w", request.Key, err)
	}

	response := &Response{
		Request:    request,
		Data:       data,
		Features:   features,
		Headers:    resp.Header,
		StatusCode: resp.StatusCode,
		Size:       len(data),
		FetchTime:  time.Since(start),
	}

	if f.cache != nil {
		f.cache.SetDefault(request.Key.String(), response)
	}

	return response, nil
}

// buildHTTPRequest constructs an HTTP request from a tile request
func (f *HTTPFetcher) buildHTTPRequest(ctx context.Context, tileReq *Request) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tileReq.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	// Set default headers
	req.Header.Set("Accept", "application/geo+json, application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	// Add authentication if configured
	if f.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.config.APIKey)
	}

	// Add server-level headers from configuration
	for key, value := range f.config.Headers {
		req.Header.Set(key, value)
	}

	// Add request-specific headers
	for key, value := range tileReq.Headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

// tileBody is the feature-collection-like shape a tile endpoint returns.
// Only the features member matters; the type member is optional.
type tileBody struct {
	Features []*geojson.Feature `json:"features"`
}

// ParseFeatures decodes a tile response body into its features
func ParseFeatures(data []byte) ([]*geojson.Feature, error) {
	var body tileBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("malformed tile body: %w", err)
	}

	if body.Features == nil {
		return nil, fmt.Errorf("tile body has no features field")
	}

	return body.Features, nil
}
