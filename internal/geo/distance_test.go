package geo_test

import (
	"math"
	"testing"

	"github.com/UnknownOlympus/vetscout/internal/geo"
	"github.com/UnknownOlympus/vetscout/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	delhi := models.Coordinates{Latitude: 28.6139, Longitude: 77.2090}
	redFort := models.Coordinates{Latitude: 28.6562, Longitude: 77.2410}

	t.Run("identical points", func(t *testing.T) {
		points := []models.Coordinates{delhi, {}, {Latitude: -89.9, Longitude: 179.9}}
		for _, p := range points {
			assert.Zero(t, geo.Distance(p, p))
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		pairs := [][2]models.Coordinates{
			{delhi, redFort},
			{{Latitude: 51.5, Longitude: -0.12}, {Latitude: 40.7, Longitude: -74}},
			{{Latitude: -33.86, Longitude: 151.2}, {Latitude: 35.68, Longitude: 139.69}},
		}
		for _, pair := range pairs {
			assert.InDelta(t, geo.Distance(pair[0], pair[1]), geo.Distance(pair[1], pair[0]), 1e-9)
		}
	})

	t.Run("quarter great circle", func(t *testing.T) {
		d := geo.Distance(models.Coordinates{}, models.Coordinates{Longitude: 90})
		assert.InDelta(t, 10007.5, d, 0.1)
	})

	t.Run("antipodes", func(t *testing.T) {
		d := geo.Distance(models.Coordinates{}, models.Coordinates{Longitude: 180})
		assert.InDelta(t, geo.EarthRadiusKm*math.Pi, d, 0.1)
		assert.False(t, math.IsNaN(d))
	})

	t.Run("rounded to one decimal", func(t *testing.T) {
		d := geo.Distance(delhi, redFort)
		assert.InDelta(t, 5.6, d, 1e-9)
		assert.InDelta(t, math.Round(d*10)/10, d, 1e-12)
	})
}

func TestFormatDistance(t *testing.T) {
	testCases := []struct {
		km   float64
		want string
	}{
		{0.5, "500 m"},
		{1.0, "1 km"},
		{0.999, "999 m"},
		{0, "0 m"},
		{4.2, "4.2 km"},
		{10007.5, "10007.5 km"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, geo.FormatDistance(tc.km), "km=%v", tc.km)
	}
}

func TestRank(t *testing.T) {
	origin := models.Coordinates{Latitude: 28.6139, Longitude: 77.2090}
	vets := []models.Vet{
		{ID: 1, Name: "far", Coordinates: [2]float64{28.5245, 77.2065}},
		{ID: 2, Name: "near", Coordinates: [2]float64{28.6304, 77.2177}},
		{ID: 3, Name: "middle", Coordinates: [2]float64{28.6562, 77.2410}},
	}

	t.Run("orders and annotates", func(t *testing.T) {
		ranked := geo.Rank(origin, vets, 0)

		require.Len(t, ranked, 3)
		assert.Equal(t, []int{2, 3, 1}, []int{ranked[0].ID, ranked[1].ID, ranked[2].ID})
		for _, vet := range ranked {
			require.NotNil(t, vet.Distance)
			assert.Equal(t, geo.FormatDistance(*vet.Distance), vet.DistanceLabel)
		}
		assert.Nil(t, vets[0].Distance, "input must not be modified")
	})

	t.Run("limit", func(t *testing.T) {
		ranked := geo.Rank(origin, vets, 2)

		require.Len(t, ranked, 2)
		assert.Equal(t, 2, ranked[0].ID)
		assert.Equal(t, 3, ranked[1].ID)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, geo.Rank(origin, nil, 5))
	})
}
