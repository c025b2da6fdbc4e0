// Package fallback serves clinic lists when the remote search is unavailable.
// Every provider ranks its candidates by distance from the caller and keeps the nearest ones.
package fallback

import (
	"context"

	"github.com/UnknownOlympus/vetscout/internal/models"
)

// Limit is the number of clinics a provider returns at most.
const Limit = 5

// Provider returns clinics near (latitude, longitude), nearest first, with distances attached.
type Provider interface {
	FallbackVets(ctx context.Context, latitude, longitude float64) ([]models.Vet, error)
}
