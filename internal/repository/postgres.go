package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/UnknownOlympus/vetscout/internal/models"
)

// ListActiveVets retrieves every clinic that is still active, in id order.
// Specialties are stored as a JSON array in a text column.
func (r *Repository) ListActiveVets(ctx context.Context) ([]models.Vet, error) {
	var vets []models.Vet
	query := `
		SELECT id, name, address, phone, rating, reviews_count, is_open, is_emergency,
			specialties, hours, latitude, longitude
		FROM public.vets
		WHERE is_active = true
		ORDER BY id ASC;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active vets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			vet         models.Vet
			phone       *string
			rating      *float64
			reviews     *int
			isOpen      *bool
			isEmergency *bool
			specialties *string
			hours       *string
		)
		if errScan := rows.Scan(
			&vet.ID, &vet.Name, &vet.Address, &phone, &rating, &reviews,
			&isOpen, &isEmergency, &specialties, &hours,
			&vet.Coordinates[0], &vet.Coordinates[1],
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan active vet: %w", errScan)
		}

		// Nullable columns keep the zero value, except is_open which defaults to true.
		vet.Phone = deref(phone, "")
		vet.Rating = deref(rating, 0)
		vet.ReviewCount = deref(reviews, 0)
		vet.IsOpen = deref(isOpen, true)
		vet.IsEmergency = deref(isEmergency, false)
		vet.Hours = deref(hours, "")

		vet.Specialties = []string{}
		if specialties != nil && *specialties != "" {
			if errJSON := json.Unmarshal([]byte(*specialties), &vet.Specialties); errJSON != nil {
				return nil, fmt.Errorf("failed to decode specialties of vet %d: %w", vet.ID, errJSON)
			}
		}

		r.log.DebugContext(ctx, "Active vet loaded.", "ID", vet.ID, "Name", vet.Name)
		vets = append(vets, vet)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return vets, nil
}

func deref[T any](value *T, fallback T) T {
	if value == nil {
		return fallback
	}

	return *value
}
