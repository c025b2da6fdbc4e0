package fallback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/vetscout/internal/geo"
	"github.com/UnknownOlympus/vetscout/internal/models"
	"github.com/elastic/go-elasticsearch/v8"
)

// ElasticsearchProvider asks a clinic index for the documents nearest to the caller.
// Documents carry a geo_point field named "location".
type ElasticsearchProvider struct {
	client *elasticsearch.Client
	index  string
	log    *slog.Logger
}

type esClinic struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone"`
	Rating      float64  `json:"rating"`
	Reviews     int      `json:"reviews"`
	IsOpen      bool     `json:"isOpen"`
	IsEmergency bool     `json:"isEmergency"`
	Specialties []string `json:"specialties"`
	Hours       string   `json:"hours"`
	Location    struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"location"`
}

type esSearchResponse struct {
	Hits struct {
		Hits []struct {
			Source esClinic `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// NewElasticsearchProvider creates a provider searching index through client.
func NewElasticsearchProvider(client *elasticsearch.Client, index string, log *slog.Logger) *ElasticsearchProvider {
	return &ElasticsearchProvider{client: client, index: index, log: log}
}

func (p *ElasticsearchProvider) FallbackVets(ctx context.Context, latitude, longitude float64) ([]models.Vet, error) {
	query := map[string]any{
		"size":  Limit,
		"query": map[string]any{"match_all": map[string]any{}},
		"sort": []any{
			map[string]any{
				"_geo_distance": map[string]any{
					"location": map[string]float64{"lat": latitude, "lon": longitude},
					"order":    "asc",
					"unit":     "km",
				},
			},
		},
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search query: %w", err)
	}

	resp, err := p.client.Search(
		p.client.Search.WithContext(ctx),
		p.client.Search.WithIndex(p.index),
		p.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search clinic index: %w", err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("clinic index search failed: %s", resp.Status())
	}

	var result esSearchResponse
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode clinic index response: %w", err)
	}

	vets := make([]models.Vet, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		src := hit.Source
		vets = append(vets, models.Vet{
			ID:          src.ID,
			Name:        src.Name,
			Address:     src.Address,
			Phone:       src.Phone,
			Rating:      src.Rating,
			ReviewCount: src.Reviews,
			IsOpen:      src.IsOpen,
			IsEmergency: src.IsEmergency,
			Specialties: src.Specialties,
			Hours:       src.Hours,
			Coordinates: [2]float64{src.Location.Lat, src.Location.Lon},
		})
	}

	p.log.DebugContext(ctx, "Clinic index returned documents", "index", p.index, "count", len(vets))

	origin := models.Coordinates{Latitude: latitude, Longitude: longitude}
	return geo.Rank(origin, vets, Limit), nil
}
