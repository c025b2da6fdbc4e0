// Package finder resolves the caller's position and returns the clinics near it,
// from the remote search service when possible and from the fallback dataset otherwise.
package finder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/vetscout/internal/fallback"
	"github.com/UnknownOlympus/vetscout/internal/location"
	"github.com/UnknownOlympus/vetscout/internal/metrics"
	"github.com/UnknownOlympus/vetscout/internal/models"
	"github.com/UnknownOlympus/vetscout/internal/search"
)

// Source tells which stage produced a Result.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// ErrFallbackFailed is returned when the fallback dataset itself cannot be loaded.
var ErrFallbackFailed = errors.New("fallback dataset unavailable")

// CoordinateResolver provides the caller's position. It must not fail.
type CoordinateResolver interface {
	Resolve(ctx context.Context) models.Coordinates
}

// Searcher queries the remote vet search service.
type Searcher interface {
	Search(ctx context.Context, origin models.Coordinates) ([]models.Vet, error)
}

// Result is the outcome of a lookup.
type Result struct {
	Vets      []models.Vet       // Vets in the order the source produced them
	Source    Source             // Source that produced Vets
	Location  models.Coordinates // Location the search was made for
	RemoteErr error              // RemoteErr is why the remote stage was skipped, nil for SourceRemote
}

// Finder runs the two-stage lookup. It holds no mutable state and is safe for concurrent use.
type Finder struct {
	resolver CoordinateResolver
	searcher Searcher
	fallback fallback.Provider
	log      *slog.Logger
	metrics  *metrics.Metrics
}

// NewFinder creates a Finder from its collaborators.
func NewFinder(
	resolver CoordinateResolver,
	searcher Searcher,
	provider fallback.Provider,
	log *slog.Logger,
	metrics *metrics.Metrics,
) *Finder {
	return &Finder{
		resolver: resolver,
		searcher: searcher,
		fallback: provider,
		log:      log,
		metrics:  metrics,
	}
}

// FindNearby returns the clinics near userLocation, or near the resolved position when
// userLocation is nil. Remote failures are recovered through the fallback provider;
// only a fallback failure is returned as an error.
func (f *Finder) FindNearby(ctx context.Context, userLocation *models.Coordinates) (Result, error) {
	var origin models.Coordinates
	if userLocation != nil {
		origin = *userLocation
	} else {
		origin = f.resolve(ctx)
	}

	f.log.InfoContext(ctx, "Searching for vets", "lat", origin.Latitude, "lon", origin.Longitude)

	start := time.Now()
	vets, err := f.searcher.Search(ctx, origin)
	f.metrics.RemoteSeconds.Observe(time.Since(start).Seconds())

	if err == nil && len(vets) > 0 {
		f.log.InfoContext(ctx, "Found vets via remote search", "count", len(vets))
		f.metrics.Lookups.WithLabelValues(string(SourceRemote)).Inc()
		return Result{Vets: vets, Source: SourceRemote, Location: origin}, nil
	}
	if err == nil {
		err = search.ErrEmptyResult
	}

	f.log.WarnContext(ctx, "Remote search failed, using fallback data", "error", err)
	f.metrics.RemoteErrors.Inc()

	vets, fbErr := f.fallback.FallbackVets(ctx, origin.Latitude, origin.Longitude)
	if fbErr != nil {
		f.log.ErrorContext(ctx, "Failed to load fallback vets", "error", fbErr)
		f.metrics.FallbackErrors.Inc()
		return Result{}, fmt.Errorf("%w: %w", ErrFallbackFailed, fbErr)
	}

	f.metrics.Lookups.WithLabelValues(string(SourceFallback)).Inc()

	return Result{Vets: vets, Source: SourceFallback, Location: origin, RemoteErr: err}, nil
}

// resolve calls the resolver and substitutes the default position if it panics.
func (f *Finder) resolve(ctx context.Context) (coords models.Coordinates) {
	defer func() {
		if rec := recover(); rec != nil {
			f.log.ErrorContext(ctx, "Failed to get user location", "panic", rec)
			coords = location.DefaultCoordinates
		}
	}()

	return f.resolver.Resolve(ctx)
}
