package search_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/UnknownOlympus/vetscout/internal/models"
	"github.com/UnknownOlympus/vetscout/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var origin = models.Coordinates{Latitude: 28.6139, Longitude: 77.209}

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return srv
}

func TestClient_Search(t *testing.T) {
	logger := slog.Default()

	t.Run("sends the fixed query and keeps order", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, search.SearchPath, r.URL.Path)
			assert.Equal(t, "28.6139", r.URL.Query().Get("latitude"))
			assert.Equal(t, "77.209", r.URL.Query().Get("longitude"))
			assert.Equal(t, "10", r.URL.Query().Get("radius_km"))
			assert.Equal(t, "5", r.URL.Query().Get("limit"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"id":2,"name":"B","coordinates":[28.65,77.19],"distance":"4.6 km"},
				{"id":1,"name":"A","coordinates":[28.63,77.21],"distance":"2 km"}
			]`))
		})

		vets, err := search.NewClient(srv.URL+"/", logger).Search(t.Context(), origin)

		require.NoError(t, err)
		require.Len(t, vets, 2)
		assert.Equal(t, 2, vets[0].ID)
		assert.Equal(t, 1, vets[1].ID)
		require.NotNil(t, vets[0].Distance)
		assert.InDelta(t, 4.6, *vets[0].Distance, 1e-9)
	})

	t.Run("empty list is a failure", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		})

		vets, err := search.NewClient(srv.URL, logger).Search(t.Context(), origin)

		require.Nil(t, vets)
		require.ErrorIs(t, err, search.ErrEmptyResult)
	})

	t.Run("non-2xx status is opaque", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`<html>maintenance</html>`))
		})

		vets, err := search.NewClient(srv.URL, logger).Search(t.Context(), origin)

		require.Nil(t, vets)
		var statusErr *search.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
		assert.Equal(t, "<html>maintenance</html>", statusErr.Body)
	})

	t.Run("large error body is truncated", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(strings.Repeat("x", 1<<20)))
		})

		_, err := search.NewClient(srv.URL, logger).Search(t.Context(), origin)

		var statusErr *search.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Len(t, statusErr.Body, search.MaxErrorBody)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"detail":"not a list"}`))
		})

		_, err := search.NewClient(srv.URL, logger).Search(t.Context(), origin)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode search response")
	})

	t.Run("relative base cannot be fetched", func(t *testing.T) {
		_, err := search.NewClient("", logger).Search(t.Context(), origin)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to execute search request")
	})

	t.Run("timeout", func(t *testing.T) {
		srv := newServer(t, func(_ http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		})

		client := search.NewClient(srv.URL, logger, search.WithTimeout(20*time.Millisecond))
		_, err := client.Search(t.Context(), origin)

		require.Error(t, err)
		assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
	})

	t.Run("rate limiter honours context", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[{"id":1}]`))
		})
		client := search.NewClient(srv.URL, logger, search.WithRateLimit(1))

		_, err := client.Search(t.Context(), origin)
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
		defer cancel()
		_, err = client.Search(ctx, origin)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limit exceeded")
	})
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "/api/vets/search", search.BuildURL("", "/api/vets/search"))
	assert.Equal(t, "https://api.example.com/api", search.BuildURL("https://api.example.com/", "api"))
	assert.Equal(t, "https://api.example.com/api", search.BuildURL(" https://api.example.com ", "/api"))
}
