// Package geo computes great-circle distances between coordinates and formats them for display.
package geo

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/UnknownOlympus/vetscout/internal/models"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Distance returns the great-circle distance between a and b in kilometers,
// rounded to one decimal place.
func Distance(a, b models.Coordinates) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Latitude))*math.Cos(toRadians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return math.Round(EarthRadiusKm*c*10) / 10
}

// FormatDistance renders a distance in kilometers: meters below one kilometer, kilometers otherwise.
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%d m", int(math.Round(km*1000)))
	}

	return strconv.FormatFloat(km, 'f', -1, 64) + " km"
}

// Rank annotates a copy of vets with their distance from origin, orders them from
// nearest to farthest and keeps at most limit entries. A limit <= 0 keeps all of them.
func Rank(origin models.Coordinates, vets []models.Vet, limit int) []models.Vet {
	ranked := make([]models.Vet, len(vets))
	for i, vet := range vets {
		km := Distance(origin, vet.Location())
		vet.Distance = &km
		vet.DistanceLabel = FormatDistance(km)
		vet.Specialties = slices.Clone(vet.Specialties)
		ranked[i] = vet
	}

	slices.SortStableFunc(ranked, func(a, b models.Vet) int {
		return cmp.Compare(*a.Distance, *b.Distance)
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}
