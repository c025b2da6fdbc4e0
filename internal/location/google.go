package location

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/vetscout/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleLocator reports the caller's position using the Google Maps Geolocation API.
type GoogleLocator struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

// GoogleAPIClient is the subset of *maps.Client used by GoogleLocator.
type GoogleAPIClient interface {
	Geolocate(ctx context.Context, r *maps.GeolocationRequest) (*maps.GeolocationResult, error)
}

// NewGoogleLocator creates a GoogleLocator around the given client.
func NewGoogleLocator(client GoogleAPIClient, log *slog.Logger) *GoogleLocator {
	return &GoogleLocator{client: client, log: log}
}

// Locate asks the Geolocation API for the position of the calling host.
// Without Wi-Fi or cell data the API can only use the request IP, so ConsiderIP is always set.
// The API has no way to name another address, so remote clients are not located.
func (gl *GoogleLocator) Locate(ctx context.Context, opts Options) (*models.Coordinates, error) {
	if isRemoteClient(ClientIP(ctx)) {
		return nil, fmt.Errorf("%w: %s", ErrRemoteClient, ClientIP(ctx))
	}

	gl.log.DebugContext(ctx, "Locating using Google Maps", "high_accuracy", opts.HighAccuracy)

	req := maps.GeolocationRequest{ConsiderIP: true}
	result, err := gl.client.Geolocate(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to geolocate: %w", err)
	}
	if result == nil {
		return nil, ErrUnavailable
	}

	gl.log.DebugContext(ctx, "Google Maps located caller", "accuracy_m", result.Accuracy)

	return &models.Coordinates{Latitude: result.Location.Lat, Longitude: result.Location.Lng}, nil
}
