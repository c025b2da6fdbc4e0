package location

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/vetscout/internal/models"
	"googlemaps.github.io/maps"
)

// LocatorType represents the platform used to locate the caller.
type LocatorType string

const (
	// LocatorTypeGoogle represents the Google Maps Geolocation API.
	LocatorTypeGoogle LocatorType = "google"
	// LocatorTypeIPAPI represents the ip-api.com IP geolocation service.
	LocatorTypeIPAPI LocatorType = "ipapi"
	// LocatorTypeStatic always reports a configured position.
	LocatorTypeStatic LocatorType = "static"
	// LocatorTypeNone represents a platform without location capability.
	LocatorTypeNone LocatorType = "none"
)

// LocatorConfig holds configuration for creating a locator.
type LocatorConfig struct {
	Type     LocatorType         // Type of locator to create
	APIKey   string              // API key (used by Google locator)
	Position *models.Coordinates // Position reported by the static locator
	Cache    bool                // Cache wraps the locator so recent fixes are reused
	Logger   *slog.Logger        // Logger for the locator
}

// NewLocator creates a locator based on the provided configuration.
// A nil Locator with a nil error is returned for LocatorTypeNone.
func NewLocator(config LocatorConfig) (Locator, error) {
	var (
		locator Locator
		err     error
	)

	switch config.Type {
	case LocatorTypeGoogle:
		locator, err = newGoogleLocator(config)
	case LocatorTypeIPAPI:
		locator = NewIPAPILocator(config.Logger)
	case LocatorTypeStatic:
		locator, err = newStaticLocator(config)
	case LocatorTypeNone:
		return nil, nil //nolint:nilnil
	default:
		return nil, fmt.Errorf("unsupported locator type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	if config.Cache {
		locator = NewCachingLocator(locator)
	}

	return locator, nil
}

func newGoogleLocator(config LocatorConfig) (Locator, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for Google locator")
	}

	client, err := maps.NewClient(maps.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleLocator(client, config.Logger), nil
}

func newStaticLocator(config LocatorConfig) (Locator, error) {
	if config.Position == nil {
		return nil, errors.New("position is required for static locator")
	}

	return NewStaticLocator(*config.Position), nil
}
