package fallback

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/vetscout/internal/repository"
	"github.com/elastic/go-elasticsearch/v8"
	"googlemaps.github.io/maps"
)

// SourceType represents the backing store of the fallback dataset.
type SourceType string

const (
	// SourceBuiltin is the dataset compiled into the binary.
	SourceBuiltin SourceType = "builtin"
	// SourceWorkbook reads an .xlsx workbook.
	SourceWorkbook SourceType = "xlsx"
	// SourcePostgres reads the vets table.
	SourcePostgres SourceType = "postgres"
	// SourceElasticsearch searches a clinic index.
	SourceElasticsearch SourceType = "elasticsearch"
	// SourcePlaces discovers clinics with Google Places, backed by the bundled dataset.
	SourcePlaces SourceType = "google_places"
	// SourceOverpass discovers clinics in OpenStreetMap, backed by the bundled dataset.
	SourceOverpass SourceType = "overpass"
)

// ProviderConfig holds configuration for creating a fallback provider.
type ProviderConfig struct {
	Source        SourceType          // Source selects the provider
	WorkbookPath  string              // WorkbookPath is the .xlsx file (xlsx)
	WorkbookSheet string              // WorkbookSheet is the sheet name (xlsx)
	Database      repository.Database // Database is an open pool (postgres)
	ESAddresses   []string            // ESAddresses are the cluster nodes (elasticsearch)
	ESIndex       string              // ESIndex is the clinic index (elasticsearch)
	PlacesAPIKey  string              // PlacesAPIKey is the Google Maps key (google_places)
	OverpassURL   string              // OverpassURL overrides OverpassURL (overpass)
	Logger        *slog.Logger        // Logger for the provider
}

// NewProvider creates a fallback provider based on the provided configuration.
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Source {
	case SourceBuiltin:
		return NewBuiltinProvider(), nil
	case SourceWorkbook:
		if config.WorkbookPath == "" {
			return nil, errors.New("workbook path is required for xlsx fallback")
		}
		sheet := config.WorkbookSheet
		if sheet == "" {
			sheet = "Sheet1"
		}
		return NewWorkbookProvider(config.WorkbookPath, sheet, config.Logger), nil
	case SourcePostgres:
		if config.Database == nil {
			return nil, errors.New("database is required for postgres fallback")
		}
		return NewRepositoryProvider(repository.NewRepository(config.Database, config.Logger)), nil
	case SourceElasticsearch:
		if len(config.ESAddresses) == 0 || config.ESIndex == "" {
			return nil, errors.New("addresses and index are required for elasticsearch fallback")
		}
		client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: config.ESAddresses})
		if err != nil {
			return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
		}
		return NewElasticsearchProvider(client, config.ESIndex, config.Logger), nil
	case SourcePlaces:
		if config.PlacesAPIKey == "" {
			return nil, errors.New("API key is required for google_places fallback")
		}
		client, err := maps.NewClient(maps.WithAPIKey(config.PlacesAPIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
		}
		places := NewPlacesProvider(client, config.Logger)
		return NewChainProvider(places, NewBuiltinProvider(), config.Logger), nil
	case SourceOverpass:
		overpass := NewOverpassProvider(http.DefaultClient, config.OverpassURL, config.Logger)
		return NewChainProvider(overpass, NewBuiltinProvider(), config.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported fallback source: %s", config.Source)
	}
}
