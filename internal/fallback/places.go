package fallback

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/UnknownOlympus/vetscout/internal/geo"
	"github.com/UnknownOlympus/vetscout/internal/models"
	"googlemaps.github.io/maps"
)

// DiscoveryRadius is how far, in meters, the discovery sources look around the caller.
const DiscoveryRadius = 5000

const (
	hoursUnavailable    = "Hours not available"
	closedPermanently   = "CLOSED_PERMANENTLY"
	placeTypeVetCare    = "veterinary_care"
	placeTypeHospital   = "hospital"
	specialtyGeneral    = "General Care"
	specialtySurgery    = "Surgery"
	specialtyEmergency  = "Emergency"
	specialtyRoundClock = "24/7"
)

// PlacesAPIClient is the part of the Google Maps client used for clinic discovery.
type PlacesAPIClient interface {
	NearbySearch(ctx context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error)
}

// PlacesProvider discovers clinics around the caller with the Google Places nearby search.
type PlacesProvider struct {
	client PlacesAPIClient
	log    *slog.Logger
}

// NewPlacesProvider creates a provider querying the Places API through client.
func NewPlacesProvider(client PlacesAPIClient, log *slog.Logger) *PlacesProvider {
	return &PlacesProvider{client: client, log: log}
}

func (p *PlacesProvider) FallbackVets(ctx context.Context, latitude, longitude float64) ([]models.Vet, error) {
	resp, err := p.client.NearbySearch(ctx, &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: latitude, Lng: longitude},
		Radius:   DiscoveryRadius,
		Type:     maps.PlaceTypeVeterinaryCare,
	})
	if err != nil {
		return nil, fmt.Errorf("places nearby search failed: %w", err)
	}

	vets := make([]models.Vet, 0, len(resp.Results))
	for _, place := range resp.Results {
		if place.PermanentlyClosed || place.BusinessStatus == closedPermanently {
			continue
		}
		vets = append(vets, placeToVet(len(vets)+1, place))
	}

	p.log.DebugContext(ctx, "Places search returned clinics", "results", len(resp.Results), "kept", len(vets))

	origin := models.Coordinates{Latitude: latitude, Longitude: longitude}
	return geo.Rank(origin, vets, Limit), nil
}

func placeToVet(id int, place maps.PlacesSearchResult) models.Vet {
	isEmergency := looksLikeEmergency(place.Name, "emergency", "24", "urgent")

	var specialties []string
	if slices.Contains(place.Types, placeTypeVetCare) {
		specialties = append(specialties, specialtyGeneral)
	}
	if slices.Contains(place.Types, placeTypeHospital) {
		specialties = append(specialties, specialtySurgery)
	}
	if isEmergency {
		specialties = append(specialties, specialtyEmergency, specialtyRoundClock)
	}
	if len(specialties) == 0 {
		specialties = []string{specialtyGeneral}
	}

	vet := models.Vet{
		ID:          id,
		SourceRef:   place.PlaceID,
		Name:        place.Name,
		Address:     place.FormattedAddress,
		Rating:      float64(place.Rating),
		ReviewCount: place.UserRatingsTotal,
		IsEmergency: isEmergency,
		Specialties: specialties,
		Hours:       hoursUnavailable,
		Coordinates: [2]float64{place.Geometry.Location.Lat, place.Geometry.Location.Lng},
	}
	if vet.Address == "" {
		vet.Address = place.Vicinity
	}
	if hours := place.OpeningHours; hours != nil {
		if hours.OpenNow != nil {
			vet.IsOpen = *hours.OpenNow
		}
		if len(hours.WeekdayText) > 0 && hours.WeekdayText[0] != "" {
			vet.Hours = hours.WeekdayText[0]
		}
	}

	return vet
}

func looksLikeEmergency(name string, markers ...string) bool {
	name = strings.ToLower(name)
	for _, marker := range markers {
		if strings.Contains(name, marker) {
			return true
		}
	}

	return false
}
