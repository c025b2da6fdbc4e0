package fallback

import (
	"context"

	"github.com/UnknownOlympus/vetscout/internal/geo"
	"github.com/UnknownOlympus/vetscout/internal/models"
)

// builtinVets is the demo dataset shipped with the binary, around New Delhi.
var builtinVets = []models.Vet{
	{
		ID:          1,
		Name:        "Delhi Veterinary Hospital",
		Address:     "Near Red Fort, Old Delhi, Delhi 110006",
		Phone:       "+91-11-2396-1234",
		Rating:      4.2,
		ReviewCount: 89,
		IsOpen:      true,
		Specialties: []string{"General Care", "Surgery"},
		Hours:       "Mon-Sat: 9 AM - 6 PM",
		Coordinates: [2]float64{28.6562, 77.2410},
	},
	{
		ID:          2,
		Name:        "Pet Care Clinic",
		Address:     "Karol Bagh, New Delhi, Delhi 110005",
		Phone:       "+91-11-2875-4321",
		Rating:      4.5,
		ReviewCount: 156,
		IsOpen:      true,
		IsEmergency: true,
		Specialties: []string{"Emergency", "24/7", "Critical Care"},
		Hours:       "Open 24 hours",
		Coordinates: [2]float64{28.6517, 77.1909},
	},
	{
		ID:          3,
		Name:        "Animal Health Center",
		Address:     "Connaught Place, New Delhi, Delhi 110001",
		Phone:       "+91-11-2331-5678",
		Rating:      4.3,
		ReviewCount: 203,
		Specialties: []string{"Dental", "Grooming", "Vaccination"},
		Hours:       "Mon-Fri: 10 AM - 7 PM",
		Coordinates: [2]float64{28.6304, 77.2177},
	},
	{
		ID:          4,
		Name:        "Emergency Pet Hospital",
		Address:     "Lajpat Nagar, New Delhi, Delhi 110024",
		Phone:       "+91-11-2987-6543",
		Rating:      4.7,
		ReviewCount: 312,
		IsOpen:      true,
		IsEmergency: true,
		Specialties: []string{"Emergency", "Surgery", "ICU"},
		Hours:       "Open 24 hours",
		Coordinates: [2]float64{28.5679, 77.2431},
	},
	{
		ID:          5,
		Name:        "Veterinary Care Services",
		Address:     "Saket, New Delhi, Delhi 110017",
		Phone:       "+91-11-2651-9876",
		Rating:      4.4,
		ReviewCount: 178,
		IsOpen:      true,
		Specialties: []string{"General Care", "Pet Boarding", "Training"},
		Hours:       "Mon-Sat: 8 AM - 8 PM",
		Coordinates: [2]float64{28.5245, 77.2065},
	},
}

// StaticProvider ranks an in-memory dataset.
type StaticProvider struct {
	vets []models.Vet
}

// NewBuiltinProvider returns the provider backed by the bundled dataset.
func NewBuiltinProvider() *StaticProvider {
	return NewStaticProvider(builtinVets)
}

// NewStaticProvider returns a provider backed by vets. The slice is not copied; it must not be modified afterwards.
func NewStaticProvider(vets []models.Vet) *StaticProvider {
	return &StaticProvider{vets: vets}
}

// FallbackVets never fails.
func (p *StaticProvider) FallbackVets(_ context.Context, latitude, longitude float64) ([]models.Vet, error) {
	origin := models.Coordinates{Latitude: latitude, Longitude: longitude}
	return geo.Rank(origin, p.vets, Limit), nil
}
