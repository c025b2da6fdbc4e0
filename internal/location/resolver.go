package location

import (
	"context"
	"errors"
	"log/slog"

	"github.com/UnknownOlympus/vetscout/internal/metrics"
	"github.com/UnknownOlympus/vetscout/internal/models"
)

// Resolver obtains the caller's position and never fails: any platform error
// is replaced by DefaultCoordinates.
type Resolver struct {
	locator Locator          // locator is the platform capability, nil when absent
	opts    Options          // opts are passed to every Locate call
	log     *slog.Logger     // log receives the fallback notices
	metrics *metrics.Metrics // metrics counts fallbacks
}

// NewResolver creates a Resolver using DefaultOptions. A nil locator means the
// platform has no location capability at all.
func NewResolver(locator Locator, log *slog.Logger, metrics *metrics.Metrics) *Resolver {
	return &Resolver{locator: locator, opts: DefaultOptions, log: log, metrics: metrics}
}

// Resolve returns the reported position unchanged, or DefaultCoordinates on any failure.
func (r *Resolver) Resolve(ctx context.Context) models.Coordinates {
	if r.locator == nil {
		return r.fallback(ctx, ErrUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	coords, err := r.locator.Locate(ctx, r.opts)
	if err != nil {
		return r.fallback(ctx, err)
	}
	if coords == nil {
		return r.fallback(ctx, ErrUnavailable)
	}

	r.log.DebugContext(ctx, "Location resolved", "lat", coords.Latitude, "lon", coords.Longitude)

	return *coords
}

func (r *Resolver) fallback(ctx context.Context, err error) models.Coordinates {
	reason := "error"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		reason = "timeout"
	case errors.Is(err, ErrPermissionDenied):
		reason = "permission_denied"
	case errors.Is(err, ErrUnavailable):
		reason = "unavailable"
	}

	r.log.WarnContext(ctx, "Geolocation failed, using default location",
		"reason", reason,
		"error", err,
		"lat", DefaultCoordinates.Latitude,
		"lon", DefaultCoordinates.Longitude)
	r.metrics.LocationFallbacks.WithLabelValues(reason).Inc()

	return DefaultCoordinates
}
