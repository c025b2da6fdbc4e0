package fallback

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/UnknownOlympus/vetscout/internal/geo"
	"github.com/UnknownOlympus/vetscout/internal/models"
)

// OverpassURL is the public Overpass interpreter endpoint.
const OverpassURL = "https://overpass-api.de/api/interpreter"

const (
	addressUnavailable = "Address not available"
	phoneUnavailable   = "Phone not available"
	maxErrorBody       = 4 << 10
)

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// OverpassProvider discovers clinics tagged amenity=veterinary in OpenStreetMap.
type OverpassProvider struct {
	client  HTTPClient
	baseURL string
	log     *slog.Logger
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *overpassCenter   `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewOverpassProvider creates a provider posting queries to baseURL. An empty baseURL
// means OverpassURL; a nil client means http.DefaultClient.
func NewOverpassProvider(client HTTPClient, baseURL string, log *slog.Logger) *OverpassProvider {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = OverpassURL
	}

	return &OverpassProvider{client: client, baseURL: baseURL, log: log}
}

func (p *OverpassProvider) FallbackVets(ctx context.Context, latitude, longitude float64) ([]models.Vet, error) {
	form := url.Values{"data": {overpassQuery(latitude, longitude)}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute overpass request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		p.log.ErrorContext(ctx, "overpass error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("overpass returned status %d", resp.StatusCode)
	}

	var result overpassResponse
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode overpass response: %w", err)
	}

	vets := make([]models.Vet, 0, len(result.Elements))
	for _, element := range result.Elements {
		if vet, ok := elementToVet(element); ok {
			vets = append(vets, vet)
		}
	}

	p.log.DebugContext(ctx, "Overpass returned clinics", "elements", len(result.Elements), "kept", len(vets))

	origin := models.Coordinates{Latitude: latitude, Longitude: longitude}
	return geo.Rank(origin, vets, Limit), nil
}

func overpassQuery(latitude, longitude float64) string {
	around := fmt.Sprintf("(around:%d,%g,%g)", DiscoveryRadius, latitude, longitude)

	return `[out:json][timeout:15];(` +
		`node["amenity"="veterinary"]` + around + `;` +
		`way["amenity"="veterinary"]` + around + `;` +
		`relation["amenity"="veterinary"]` + around + `;` +
		`);out center;`
}

// elementToVet skips unnamed elements and those without a position.
func elementToVet(element overpassElement) (models.Vet, bool) {
	name := element.Tags["name"]
	if name == "" {
		return models.Vet{}, false
	}

	lat, lon := element.Lat, element.Lon
	if lat == 0 && lon == 0 && element.Center != nil {
		lat, lon = element.Center.Lat, element.Center.Lon
	}
	if lat == 0 && lon == 0 {
		return models.Vet{}, false
	}

	var parts []string
	for _, key := range []string{"addr:street", "addr:city", "addr:postcode"} {
		if part := strings.TrimSpace(element.Tags[key]); part != "" {
			parts = append(parts, part)
		}
	}
	address := strings.Join(parts, " ")
	if address == "" {
		address = addressUnavailable
	}

	phone := element.Tags["phone"]
	if phone == "" {
		phone = element.Tags["contact:phone"]
	}
	if phone == "" {
		phone = phoneUnavailable
	}

	return models.Vet{
		ID:          int(element.ID),
		SourceRef:   fmt.Sprintf("%s/%d", element.Type, element.ID),
		Name:        name,
		Address:     address,
		Phone:       phone,
		IsEmergency: looksLikeEmergency(name, "emergency"),
		Specialties: []string{specialtyGeneral},
		Hours:       hoursUnavailable,
		Coordinates: [2]float64{lat, lon},
	}, true
}
