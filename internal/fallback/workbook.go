package fallback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/UnknownOlympus/vetscout/internal/geo"
	"github.com/UnknownOlympus/vetscout/internal/models"
	"github.com/xuri/excelize/v2"
)

// Workbook column layout, header row first.
const (
	colID = iota
	colName
	colAddress
	colPhone
	colRating
	colReviews
	colOpen
	colEmergency
	colSpecialties
	colHours
	colLatitude
	colLongitude
	workbookColumns
)

// ErrEmptyWorkbook is returned when a workbook holds no usable clinic rows.
var ErrEmptyWorkbook = errors.New("workbook contains no clinics")

// WorkbookProvider reads clinics from an .xlsx file the first time it is asked for them.
type WorkbookProvider struct {
	path  string
	sheet string
	log   *slog.Logger

	mu   sync.Mutex
	vets []models.Vet
}

// NewWorkbookProvider creates a provider for the given workbook and sheet. Nothing is read yet.
func NewWorkbookProvider(path, sheet string, log *slog.Logger) *WorkbookProvider {
	return &WorkbookProvider{path: path, sheet: sheet, log: log}
}

// FallbackVets loads the workbook on first use. A failed load is retried on the next call.
func (p *WorkbookProvider) FallbackVets(ctx context.Context, latitude, longitude float64) ([]models.Vet, error) {
	vets, err := p.load(ctx)
	if err != nil {
		return nil, err
	}

	origin := models.Coordinates{Latitude: latitude, Longitude: longitude}
	return geo.Rank(origin, vets, Limit), nil
}

func (p *WorkbookProvider) load(ctx context.Context) ([]models.Vet, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.vets != nil {
		return p.vets, nil
	}

	file, err := excelize.OpenFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", p.path, err)
	}
	defer file.Close()

	rows, err := file.GetRows(p.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", p.sheet, err)
	}

	var vets []models.Vet
	for i, row := range rows {
		if i == 0 {
			continue // header
		}

		vet, errRow := parseRow(row)
		if errRow != nil {
			p.log.DebugContext(ctx, "Skipping workbook row", "row", i+1, "error", errRow)
			continue
		}
		vets = append(vets, vet)
	}

	if len(vets) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyWorkbook, p.path)
	}

	p.log.InfoContext(ctx, "Fallback workbook loaded", "path", p.path, "clinics", len(vets))
	p.vets = vets

	return vets, nil
}

func parseRow(row []string) (models.Vet, error) {
	if len(row) < workbookColumns {
		return models.Vet{}, fmt.Errorf("expected %d columns, got %d", workbookColumns, len(row))
	}

	id, err := strconv.Atoi(strings.TrimSpace(row[colID]))
	if err != nil {
		return models.Vet{}, fmt.Errorf("invalid id: %w", err)
	}

	lat, err := parseNumber(row[colLatitude])
	if err != nil {
		return models.Vet{}, fmt.Errorf("invalid latitude: %w", err)
	}
	lon, err := parseNumber(row[colLongitude])
	if err != nil {
		return models.Vet{}, fmt.Errorf("invalid longitude: %w", err)
	}

	// Optional numeric columns default to zero.
	rating, _ := parseNumber(row[colRating])
	reviews, _ := strconv.Atoi(strings.TrimSpace(row[colReviews]))

	specialties := []string{}
	for _, s := range strings.Split(row[colSpecialties], ";") {
		if s = strings.TrimSpace(s); s != "" {
			specialties = append(specialties, s)
		}
	}

	return models.Vet{
		ID:          id,
		Name:        strings.TrimSpace(row[colName]),
		Address:     strings.TrimSpace(row[colAddress]),
		Phone:       strings.TrimSpace(row[colPhone]),
		Rating:      rating,
		ReviewCount: reviews,
		IsOpen:      parseBool(row[colOpen]),
		IsEmergency: parseBool(row[colEmergency]),
		Specialties: specialties,
		Hours:       strings.TrimSpace(row[colHours]),
		Coordinates: [2]float64{lat, lon},
	}, nil
}

// parseNumber accepts both "28.65" and "28,65".
func parseNumber(val string) (float64, error) {
	val = strings.TrimSpace(strings.ReplaceAll(val, ",", "."))
	if val == "" {
		return 0, errors.New("empty")
	}
	return strconv.ParseFloat(val, 64)
}

func parseBool(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}
