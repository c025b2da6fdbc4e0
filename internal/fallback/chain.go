package fallback

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/vetscout/internal/models"
)

// ChainProvider asks its primary source first and serves the secondary one when
// the primary fails or finds nothing.
type ChainProvider struct {
	primary   Provider
	secondary Provider
	log       *slog.Logger
}

func NewChainProvider(primary, secondary Provider, log *slog.Logger) *ChainProvider {
	return &ChainProvider{primary: primary, secondary: secondary, log: log}
}

func (p *ChainProvider) FallbackVets(ctx context.Context, latitude, longitude float64) ([]models.Vet, error) {
	vets, err := p.primary.FallbackVets(ctx, latitude, longitude)
	switch {
	case err != nil:
		p.log.WarnContext(ctx, "Clinic discovery failed, using bundled clinics", "error", err)
	case len(vets) == 0:
		p.log.InfoContext(ctx, "Clinic discovery found nothing, using bundled clinics")
	default:
		return vets, nil
	}

	return p.secondary.FallbackVets(ctx, latitude, longitude)
}
