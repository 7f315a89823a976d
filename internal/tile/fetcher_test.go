// internal/tile/fetcher_test.go - Unit tests for the HTTP tile fetcher
package tile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielsivyer4567/parcelmeter/internal/config"
)

func testConfig(baseURL string, cacheEnabled bool) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			BaseURL: baseURL,
			Timeout: 5 * time.Second,
		},
		Cache: config.CacheConfig{
			Enabled:    cacheEnabled,
			Expiration: time.Minute,
			Cleanup:    time.Minute,
		},
		Network: config.NetworkConfig{
			UserAgent:       "parcelmeter-test",
			MaxIdleConns:    10,
			IdleConnTimeout: time.Minute,
		},
	}
}

func tileBodyFor(t *testing.T, features ...*geojson.Feature) []byte {
	t.Helper()
	body := map[string]interface{}{"features": features}
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return data
}

func squareFeature(id interface{}) *geojson.Feature {
	f := geojson.NewFeature(orb.Polygon{
		{{0, 0}, {0.001, 0}, {0.001, 0.001}, {0, 0.001}, {0, 0}},
	})
	f.ID = id
	return f
}

func TestFetchParsesFeatures(t *testing.T) {
	body := tileBodyFor(t, squareFeature("p1"))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher(testConfig(srv.URL, false))

	resp, err := fetcher.Fetch(context.Background(), NewRequest(NewKey(14, 1, 1), srv.URL))
	require.NoError(t, err)
	require.Len(t, resp.Features, 1)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Data)
}

func TestFetchNonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher(testConfig(srv.URL, false))

	_, err := fetcher.Fetch(context.Background(), NewRequest(NewKey(14, 1, 1), srv.URL))
	assert.Error(t, err)
}

func TestFetchMalformedBodyIsError(t *testing.T) {
	cases := map[string]string{
		"not json":          `<html>oops</html>`,
		"no features field": `{"count": 3}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer srv.Close()

			fetcher := NewHTTPFetcher(testConfig(srv.URL, false))

			_, err := fetcher.Fetch(context.Background(), NewRequest(NewKey(14, 1, 1), srv.URL))
			assert.Error(t, err)
		})
	}
}

func TestFetchEmptyFeatureListIsNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features": []}`))
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher(testConfig(srv.URL, false))

	resp, err := fetcher.Fetch(context.Background(), NewRequest(NewKey(14, 1, 1), srv.URL))
	require.NoError(t, err)
	assert.Empty(t, resp.Features)
}

func TestFetchUsesCache(t *testing.T) {
	var hits int64
	body := tileBodyFor(t, squareFeature("p1"))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write(body)
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher(testConfig(srv.URL, true))
	request := NewRequest(NewKey(14, 1, 1), srv.URL)

	_, err := fetcher.Fetch(context.Background(), request)
	require.NoError(t, err)
	_, err = fetcher.Fetch(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))
}

func TestParseFeatures(t *testing.T) {
	features, err := ParseFeatures(tileBodyFor(t, squareFeature("a"), squareFeature("b")))
	require.NoError(t, err)
	assert.Len(t, features, 2)

	_, err = ParseFeatures([]byte(`{}`))
	assert.Error(t, err)
}
