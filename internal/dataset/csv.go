package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"dining-recommender/internal/models"
)

// CSVPaths locates the three snapshot files.
type CSVPaths struct {
	Master     string
	Experience string
	Public     string
}

// CSVProvider reads a fresh snapshot from disk on every Load.
type CSVProvider struct {
	paths CSVPaths
}

func NewCSVProvider(paths CSVPaths) *CSVProvider {
	return &CSVProvider{paths: paths}
}

func (p *CSVProvider) Load(ctx context.Context) ([]models.RestaurantRecord, error) {
	master, err := readTable(ctx, p.paths.Master, parseMasterRow)
	if err != nil {
		return nil, err
	}
	experience, err := readTable(ctx, p.paths.Experience, parseExperienceRow)
	if err != nil {
		return nil, err
	}
	public, err := readTable(ctx, p.paths.Public, parsePublicRow)
	if err != nil {
		return nil, err
	}
	return Join(master, experience, public)
}

// csvRow resolves cells by header name. Missing columns read as "".
type csvRow struct {
	header map[string]int
	cells  []string
}

func (r csvRow) get(column string) string {
	i, ok := r.header[column]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return r.cells[i]
}

func readTable[T any](ctx context.Context, path string, parse func(csvRow) T) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return parseTable(ctx, path, f, parse)
}

func parseTable[T any](ctx context.Context, name string, r io.Reader, parse func(csvRow) T) ([]T, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headerCells, err := reader.Read()
	if err == io.EOF {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", name, err)
	}
	header := make(map[string]int, len(headerCells))
	for i, h := range headerCells {
		h = strings.TrimPrefix(h, "\ufeff")
		header[strings.TrimSpace(strings.ToLower(h))] = i
	}
	if _, ok := header["restaurant_id"]; !ok {
		return nil, fmt.Errorf("%s: missing restaurant_id column", name)
	}

	rows := make([]T, 0)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if isBlank(cells) {
			continue
		}
		rows = append(rows, parse(csvRow{header: header, cells: cells}))
	}
	return rows, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseMasterRow(r csvRow) MasterRow {
	return MasterRow{
		ID:                r.get("restaurant_id"),
		Name:              r.get("name"),
		City:              r.get("city"),
		Neighborhood:      r.get("neighborhood"),
		Status:            r.get("status"),
		Note:              r.get("your_note"),
		URL:               r.get("google_maps_url"),
		PriceTier:         optionalInt(r.get("price_tier")),
		PublicRating:      optionalFloat(r.get("public_rating")),
		PublicReviewCount: optionalInt(r.get("public_review_count")),
		Latitude:          optionalFloat(r.get("latitude")),
		Longitude:         optionalFloat(r.get("longitude")),
	}
}

func parseExperienceRow(r csvRow) ExperienceRow {
	return ExperienceRow{
		ID:             r.get("restaurant_id"),
		WouldRecommend: r.get("would_recommend"),
		Confidence:     r.get("confidence"),
		BestFor:        models.ParseTagSet(r.get("best_for")),
		Vibe:           models.ParseTagSet(r.get("vibe")),
		FoodStrength:   models.ParseTagSet(r.get("food_strength")),
		Dealbreakers:   models.ParseTagSet(r.get("dealbreakers")),
	}
}

func parsePublicRow(r csvRow) PublicRow {
	return PublicRow{
		ID:                r.get("restaurant_id"),
		PublicRating:      optionalFloat(r.get("public_rating")),
		PublicReviewCount: optionalInt(r.get("public_review_count")),
		PriceTier:         optionalInt(r.get("price_tier")),
		PublicVibe:        r.get("public_vibe"),
		PublicVibeSource:  r.get("public_vibe_source"),
		PublicVibeModel:   r.get("public_vibe_model"),
	}
}
