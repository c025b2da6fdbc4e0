package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidDistance is returned when a distance label cannot be parsed.
var ErrInvalidDistance = errors.New("invalid distance label")

// Vet is a veterinary clinic as returned by the search service or a fallback source.
type Vet struct {
	ID            int        `json:"id"`
	SourceRef     string     `json:"sourceRef,omitempty"` // SourceRef is the upstream identifier of discovered clinics.
	Name          string     `json:"name"`
	Address       string     `json:"address"`
	Phone         string     `json:"phone"`
	Rating        float64    `json:"rating"`
	ReviewCount   int        `json:"reviews"`
	IsOpen        bool       `json:"isOpen"`
	IsEmergency   bool       `json:"isEmergency"`
	Specialties   []string   `json:"specialties"`
	Hours         string     `json:"hours"`
	Coordinates   [2]float64 `json:"coordinates"` // [latitude, longitude]
	Distance      *float64   `json:"distance,omitempty"`
	DistanceLabel string     `json:"distanceLabel,omitempty"`
}

// Location returns the clinic position as Coordinates.
func (v Vet) Location() Coordinates {
	return Coordinates{Latitude: v.Coordinates[0], Longitude: v.Coordinates[1]}
}

// UnmarshalJSON accepts "distance" either as a number of kilometers
// or as a display label such as "1.2 km" or "500 m".
func (v *Vet) UnmarshalJSON(data []byte) error {
	type plain Vet
	aux := struct {
		*plain
		Distance json.RawMessage `json:"distance,omitempty"`
	}{plain: (*plain)(v)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := strings.TrimSpace(string(aux.Distance))
	if raw == "" || raw == "null" {
		v.Distance = nil
		return nil
	}

	if raw[0] == '"' {
		var label string
		if err := json.Unmarshal(aux.Distance, &label); err != nil {
			return fmt.Errorf("failed to decode distance label: %w", err)
		}
		km, err := ParseDistanceLabel(label)
		if err != nil {
			return err
		}
		v.Distance = &km
		v.DistanceLabel = label
		return nil
	}

	km, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDistance, raw)
	}
	v.Distance = &km

	return nil
}

// ParseDistanceLabel converts "<n> km" or "<n> m" into kilometers.
func ParseDistanceLabel(label string) (float64, error) {
	value, unit, found := strings.Cut(strings.TrimSpace(label), " ")
	if !found {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDistance, label)
	}

	num, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDistance, label)
	}

	switch strings.TrimSpace(unit) {
	case "km":
		return num, nil
	case "m":
		const metersPerKm = 1000
		return num / metersPerKm, nil
	default:
		return 0, fmt.Errorf("%w: unknown unit in %q", ErrInvalidDistance, label)
	}
}
