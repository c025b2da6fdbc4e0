package fallback_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UnknownOlympus/vetscout/internal/fallback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOverpassProvider(t *testing.T, handler http.HandlerFunc) *fallback.OverpassProvider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return fallback.NewOverpassProvider(srv.Client(), srv.URL, slog.Default())
}

func TestOverpassProvider_FallbackVets(t *testing.T) {
	t.Run("maps tagged elements", func(t *testing.T) {
		provider := newOverpassProvider(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
			query := r.FormValue("data")
			assert.Contains(t, query, `node["amenity"="veterinary"](around:5000,28.6139,77.209)`)
			assert.Contains(t, query, `relation["amenity"="veterinary"]`)
			assert.Contains(t, query, "out center;")

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"elements":[
				{"type":"way","id":9001,"center":{"lat":28.5679,"lon":77.2431},
					"tags":{"name":"Emergency Pet Hospital","contact:phone":"+91-11-2987-6543"}},
				{"type":"node","id":42,"lat":28.6304,"lon":77.2177,
					"tags":{"name":"Animal Health Center","addr:street":"Connaught Place","addr:city":"New Delhi","phone":"+91-11-2331-5678"}},
				{"type":"node","id":7,"lat":28.62,"lon":77.21,"tags":{"amenity":"veterinary"}},
				{"type":"relation","id":8,"tags":{"name":"Nowhere Vets"}}
			]}`))
		})

		vets, err := provider.FallbackVets(t.Context(), 28.6139, 77.2090)

		require.NoError(t, err)
		assert.Equal(t, []int{42, 9001}, ids(vets))

		assert.Equal(t, "node/42", vets[0].SourceRef)
		assert.Equal(t, "Connaught Place New Delhi", vets[0].Address)
		assert.Equal(t, "+91-11-2331-5678", vets[0].Phone)
		assert.False(t, vets[0].IsEmergency)
		assert.Zero(t, vets[0].Rating)
		assert.Equal(t, []string{"General Care"}, vets[0].Specialties)

		assert.Equal(t, "way/9001", vets[1].SourceRef)
		assert.Equal(t, "Address not available", vets[1].Address)
		assert.Equal(t, "+91-11-2987-6543", vets[1].Phone)
		assert.True(t, vets[1].IsEmergency)
		assert.Equal(t, [2]float64{28.5679, 77.2431}, vets[1].Coordinates)
	})

	t.Run("error status", func(t *testing.T) {
		provider := newOverpassProvider(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
		})

		vets, err := provider.FallbackVets(t.Context(), 28.6, 77.2)

		require.ErrorContains(t, err, "overpass returned status 429")
		assert.Nil(t, vets)
	})

	t.Run("malformed response", func(t *testing.T) {
		provider := newOverpassProvider(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{`))
		})

		_, err := provider.FallbackVets(t.Context(), 28.6, 77.2)

		require.ErrorContains(t, err, "failed to decode overpass response")
	})
}
