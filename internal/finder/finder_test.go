package finder_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/UnknownOlympus/vetscout/internal/finder"
	"github.com/UnknownOlympus/vetscout/internal/location"
	"github.com/UnknownOlympus/vetscout/internal/metrics"
	"github.com/UnknownOlympus/vetscout/internal/models"
	"github.com/UnknownOlympus/vetscout/internal/search"
	"github.com/UnknownOlympus/vetscout/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resolverFunc func(ctx context.Context) models.Coordinates

func (f resolverFunc) Resolve(ctx context.Context) models.Coordinates { return f(ctx) }

func fixedResolver(coords models.Coordinates) resolverFunc {
	return func(context.Context) models.Coordinates { return coords }
}

func TestFindNearby(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx := t.Context()
	resolved := models.Coordinates{Latitude: 50.45, Longitude: 30.52}
	supplied := models.Coordinates{Latitude: 28.61, Longitude: 77.20}
	remoteVets := []models.Vet{{ID: 9, Name: "Z"}, {ID: 1, Name: "A"}}
	fallbackVets := []models.Vet{{ID: 100, Name: "Fallback"}}

	t.Run("remote results are returned unmodified", func(t *testing.T) {
		appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
		searcher := mocks.NewSearcher(t)
		provider := mocks.NewFallbackProvider(t)
		searcher.On("Search", ctx, resolved).Return(remoteVets, nil).Once()

		svc := finder.NewFinder(fixedResolver(resolved), searcher, provider, logger, appMetrics)
		result, err := svc.FindNearby(ctx, nil)

		require.NoError(t, err)
		assert.Equal(t, remoteVets, result.Vets)
		assert.Equal(t, finder.SourceRemote, result.Source)
		assert.Equal(t, resolved, result.Location)
		require.NoError(t, result.RemoteErr)
		assert.InDelta(t, 1.0, testutil.ToFloat64(appMetrics.Lookups.WithLabelValues("remote")), 0)
	})

	t.Run("supplied location skips the resolver", func(t *testing.T) {
		appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
		searcher := mocks.NewSearcher(t)
		provider := mocks.NewFallbackProvider(t)
		searcher.On("Search", ctx, supplied).Return(remoteVets, nil).Once()

		resolver := resolverFunc(func(context.Context) models.Coordinates {
			t.Fatal("resolver must not be called")
			return models.Coordinates{}
		})

		svc := finder.NewFinder(resolver, searcher, provider, logger, appMetrics)
		result, err := svc.FindNearby(ctx, &supplied)

		require.NoError(t, err)
		assert.Equal(t, supplied, result.Location)
	})

	t.Run("empty remote result uses fallback", func(t *testing.T) {
		appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
		searcher := mocks.NewSearcher(t)
		provider := mocks.NewFallbackProvider(t)
		searcher.On("Search", ctx, supplied).Return(nil, search.ErrEmptyResult).Once()
		provider.On("FallbackVets", ctx, supplied.Latitude, supplied.Longitude).Return(fallbackVets, nil).Once()

		svc := finder.NewFinder(fixedResolver(resolved), searcher, provider, logger, appMetrics)
		result, err := svc.FindNearby(ctx, &supplied)

		require.NoError(t, err)
		assert.Equal(t, fallbackVets, result.Vets)
		assert.Equal(t, finder.SourceFallback, result.Source)
		require.ErrorIs(t, result.RemoteErr, search.ErrEmptyResult)
		assert.InDelta(t, 1.0, testutil.ToFloat64(appMetrics.RemoteErrors), 0)
		assert.InDelta(t, 1.0, testutil.ToFloat64(appMetrics.Lookups.WithLabelValues("fallback")), 0)
	})

	t.Run("empty list without error uses fallback", func(t *testing.T) {
		appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
		searcher := mocks.NewSearcher(t)
		provider := mocks.NewFallbackProvider(t)
		searcher.On("Search", ctx, resolved).Return([]models.Vet{}, nil).Once()
		provider.On("FallbackVets", ctx, resolved.Latitude, resolved.Longitude).Return(fallbackVets, nil).Once()

		svc := finder.NewFinder(fixedResolver(resolved), searcher, provider, logger, appMetrics)
		result, err := svc.FindNearby(ctx, nil)

		require.NoError(t, err)
		assert.Equal(t, finder.SourceFallback, result.Source)
		require.ErrorIs(t, result.RemoteErr, search.ErrEmptyResult)
	})

	t.Run("remote error uses fallback with resolved coordinates", func(t *testing.T) {
		appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
		searcher := mocks.NewSearcher(t)
		provider := mocks.NewFallbackProvider(t)
		statusErr := &search.StatusError{Code: 500, Body: "boom"}
		searcher.On("Search", ctx, resolved).Return(nil, statusErr).Once()
		provider.On("FallbackVets", ctx, resolved.Latitude, resolved.Longitude).Return(fallbackVets, nil).Once()

		svc := finder.NewFinder(fixedResolver(resolved), searcher, provider, logger, appMetrics)
		result, err := svc.FindNearby(ctx, nil)

		require.NoError(t, err)
		assert.Equal(t, fallbackVets, result.Vets)
		var got *search.StatusError
		require.ErrorAs(t, result.RemoteErr, &got)
		assert.Equal(t, 500, got.Code)
	})

	t.Run("fallback failure is returned", func(t *testing.T) {
		appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
		searcher := mocks.NewSearcher(t)
		provider := mocks.NewFallbackProvider(t)
		searcher.On("Search", ctx, resolved).Return(nil, assert.AnError).Once()
		provider.On("FallbackVets", ctx, resolved.Latitude, resolved.Longitude).Return(nil, os.ErrNotExist).Once()

		svc := finder.NewFinder(fixedResolver(resolved), searcher, provider, logger, appMetrics)
		result, err := svc.FindNearby(ctx, nil)

		require.ErrorIs(t, err, finder.ErrFallbackFailed)
		require.ErrorIs(t, err, os.ErrNotExist)
		assert.Empty(t, result.Vets)
		assert.InDelta(t, 1.0, testutil.ToFloat64(appMetrics.FallbackErrors), 0)
	})

	t.Run("panicking resolver falls back to default location", func(t *testing.T) {
		appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
		searcher := mocks.NewSearcher(t)
		provider := mocks.NewFallbackProvider(t)
		searcher.On("Search", ctx, location.DefaultCoordinates).Return(remoteVets, nil).Once()

		resolver := resolverFunc(func(context.Context) models.Coordinates {
			panic("platform crashed")
		})

		svc := finder.NewFinder(resolver, searcher, provider, logger, appMetrics)
		result, err := svc.FindNearby(ctx, nil)

		require.NoError(t, err)
		assert.Equal(t, location.DefaultCoordinates, result.Location)
	})
}
