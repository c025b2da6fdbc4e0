package location

import (
	"context"

	"github.com/UnknownOlympus/vetscout/internal/models"
)

// StaticLocator implements Locator with a fixed position.
type StaticLocator struct {
	position models.Coordinates
}

// NewStaticLocator creates a locator that always reports the same position.
func NewStaticLocator(position models.Coordinates) *StaticLocator {
	return &StaticLocator{position: position}
}

// Locate returns the fixed position unless ctx is already done.
func (s *StaticLocator) Locate(ctx context.Context, _ Options) (*models.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	position := s.position
	return &position, nil
}
