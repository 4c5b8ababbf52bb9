package dataflows

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSerper(t *testing.T, handler http.HandlerFunc) *SerperClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sc := NewSerperClient("test-key")
	sc.client.SetBaseURL(srv.URL)
	sc.retry = fastRetry()
	return sc
}

func TestSearchConvertsOrganicResults(t *testing.T) {
	var gotBody map[string]interface{}
	sc := newTestSerper(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
		assert.Equal(t, "/search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"organic": []map[string]string{
				{"title": "Nvidia - Wikipedia", "link": "https://en.wikipedia.org/wiki/Nvidia", "snippet": "GPU maker", "date": "2026-08-01"},
				{"title": "No link result"},
				{"link": "https://example.com/untitled"},
			},
		})
	})

	sources, err := sc.Search(context.Background(), "Nvidia company overview", 6)
	require.NoError(t, err)

	// Results without both a link and a title are dropped.
	require.Len(t, sources, 1)
	assert.Equal(t, "Nvidia - Wikipedia", sources[0].Title)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Nvidia", sources[0].URL)
	assert.Equal(t, "2026-08-01", sources[0].PublishedDate)

	assert.Equal(t, "Nvidia company overview", gotBody["q"])
	assert.Equal(t, float64(6), gotBody["num"])
	assert.Equal(t, "us", gotBody["gl"])
}

func TestSearchRetriesRateLimit(t *testing.T) {
	calls := 0
	sc := newTestSerper(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"organic": []map[string]string{{"title": "t", "link": "https://l"}},
		})
	})

	sources, err := sc.Search(context.Background(), "q", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, sources, 1)
}

func TestSearchExhaustedRetriesNameTheQuery(t *testing.T) {
	sc := newTestSerper(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := sc.Search(context.Background(), "Nvidia news", 1)
	require.Error(t, err)

	var searchErr *SearchError
	require.True(t, errors.As(err, &searchErr))
	assert.Equal(t, "Nvidia news", searchErr.Query)
	assert.Contains(t, err.Error(), `serper search failed for query "Nvidia news"`)
}

func TestSearchRequiresAPIKey(t *testing.T) {
	sc := NewSerperClient("")
	_, err := sc.Search(context.Background(), "q", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
