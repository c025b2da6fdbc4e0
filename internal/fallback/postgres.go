package fallback

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/vetscout/internal/geo"
	"github.com/UnknownOlympus/vetscout/internal/models"
	"github.com/UnknownOlympus/vetscout/internal/repository"
)

// RepositoryProvider ranks the active clinics stored in Postgres.
type RepositoryProvider struct {
	repo repository.Interface
}

// NewRepositoryProvider creates a provider reading from repo on every call.
func NewRepositoryProvider(repo repository.Interface) *RepositoryProvider {
	return &RepositoryProvider{repo: repo}
}

func (p *RepositoryProvider) FallbackVets(ctx context.Context, latitude, longitude float64) ([]models.Vet, error) {
	vets, err := p.repo.ListActiveVets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load fallback vets: %w", err)
	}

	origin := models.Coordinates{Latitude: latitude, Longitude: longitude}
	return geo.Rank(origin, vets, Limit), nil
}
