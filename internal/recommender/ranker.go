package recommender

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "dining-recommender/internal/common/errors"
	"dining-recommender/internal/common/logger"
	"dining-recommender/internal/common/metrics"
	"dining-recommender/internal/dataset"
	"dining-recommender/internal/geo"
	"dining-recommender/internal/models"
)

const tracerName = "dining-recommender/recommender"

// Config tunes the orchestration around the pure scoring functions.
type Config struct {
	DefaultTopN    int
	MaxTopN        int
	GeocodeTimeout time.Duration
	// LoadRetries is how many extra load attempts follow a failed one.
	// Integrity failures are never retried.
	LoadRetries int
}

func DefaultConfig() *Config {
	return &Config{
		DefaultTopN:    6,
		MaxTopN:        6,
		GeocodeTimeout: 5 * time.Second,
		LoadRetries:    1,
	}
}

// Request is one recommendation call.
type Request struct {
	Query        string
	TopN         int
	City         string
	ExcludeNames []string
}

// Recommendation carries the ranked list and the intent it was ranked for.
type Recommendation struct {
	Query      models.ParsedQuery    `json:"parsed_query"`
	Coordinate *models.Coordinate    `json:"coordinate,omitempty"`
	Results    []models.RankedResult `json:"results"`
}

type Ranker struct {
	config   *Config
	source   dataset.Provider
	resolver geo.Resolver
	logger   logger.Logger
}

// NewRanker wires a ranker. resolver may be nil, which disables distance scoring.
func NewRanker(config *Config, source dataset.Provider, resolver geo.Resolver, log logger.Logger) *Ranker {
	if config == nil {
		config = DefaultConfig()
	}
	return &Ranker{
		config:   config,
		source:   source,
		resolver: resolver,
		logger:   log.WithFields(map[string]interface{}{"component": "ranker"}),
	}
}

// Recommend loads a fresh snapshot, scores every candidate and returns at most
// TopN results sorted by final score. An empty list is not an error.
func (r *Ranker) Recommend(ctx context.Context, req Request) (*Recommendation, error) {
	start := time.Now()
	ctx, span := otel.Tracer(tracerName).Start(ctx, "Ranker.Recommend")
	defer span.End()

	rec, err := r.recommend(ctx, req)
	outcome := "success"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("results", len(rec.Results)))
		metrics.RecommendationResults.Observe(float64(len(rec.Results)))
	}
	metrics.RecommendationsTotal.WithLabelValues(outcome).Inc()
	metrics.RecommendationDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	return rec, err
}

func (r *Ranker) recommend(ctx context.Context, req Request) (*Recommendation, error) {
	records, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	q := Parse(req.Query)
	if city := NormalizeCity(req.City); city != "" {
		q.City = city
	}

	coord := r.resolve(ctx, q)

	excluded := make(map[string]bool, len(req.ExcludeNames))
	for _, name := range req.ExcludeNames {
		if n := strings.ToLower(strings.TrimSpace(name)); n != "" {
			excluded[n] = true
		}
	}

	type candidate struct {
		record models.RestaurantRecord
		score  models.ScoreResult
	}
	candidates := make([]candidate, 0, len(records))
	for _, record := range records {
		if q.City != "" && strings.TrimSpace(record.City) != q.City {
			continue
		}
		if excluded[strings.ToLower(strings.TrimSpace(record.Name))] {
			continue
		}
		candidates = append(candidates, candidate{record: record, score: Score(record, q, coord)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score.FinalScore > candidates[j].score.FinalScore
	})

	topN := r.topN(req.TopN)
	results := make([]models.RankedResult, 0, topN)
	wantToTry := 0
	for _, c := range candidates {
		if len(results) >= topN {
			break
		}
		if c.record.Status == models.StatusWantToTry {
			if wantToTry >= 1 {
				continue
			}
			wantToTry++
		}
		results = append(results, toRanked(c.record, c.score, Explain(c.record, q, c.score)))
	}

	r.logger.Info("recommendation ranked", map[string]interface{}{
		"query":      req.Query,
		"city":       q.City,
		"candidates": len(candidates),
		"results":    len(results),
		"geocoded":   coord != nil,
	})

	return &Recommendation{Query: q, Coordinate: coord, Results: results}, nil
}

func (r *Ranker) load(ctx context.Context) ([]models.RestaurantRecord, error) {
	var lastErr error
	retries := max(r.config.LoadRetries, 0)
	for attempt := 0; attempt <= retries; attempt++ {
		records, err := r.source.Load(ctx)
		if err == nil {
			return records, nil
		}
		lastErr = err

		var integrity *dataset.IntegrityError
		if errors.As(err, &integrity) {
			metrics.DatasetLoadErrors.WithLabelValues("integrity").Inc()
			r.logger.Error("dataset failed integrity checks", map[string]interface{}{
				"problems": integrity.Problems,
			})
			return nil, apperrors.NewDataIntegrityError(integrity.Error())
		}

		metrics.DatasetLoadErrors.WithLabelValues("load").Inc()
		r.logger.Warn("dataset load failed", map[string]interface{}{
			"attempt": attempt + 1,
			"error":   err.Error(),
		})
		if ctx.Err() != nil {
			break
		}
	}
	return nil, apperrors.NewDatasetLoadFailedError(fmt.Errorf("load snapshot: %w", lastErr))
}

// resolve geocodes the query location once. Any failure means no coordinate.
func (r *Ranker) resolve(ctx context.Context, q models.ParsedQuery) *models.Coordinate {
	text := q.LocationText()
	if r.resolver == nil || text == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.GeocodeTimeout)
	defer cancel()

	coord, err := r.resolver.Resolve(ctx, text)
	if err != nil {
		r.logger.Warn("geocoding skipped", map[string]interface{}{
			"location": text,
			"error":    err.Error(),
		})
		return nil
	}
	return coord
}

func (r *Ranker) topN(requested int) int {
	n := requested
	if n <= 0 {
		n = r.config.DefaultTopN
	}
	if r.config.MaxTopN > 0 && n > r.config.MaxTopN {
		n = r.config.MaxTopN
	}
	return n
}

func toRanked(record models.RestaurantRecord, score models.ScoreResult, explanation string) models.RankedResult {
	return models.RankedResult{
		ID:                record.ID,
		Name:              record.Name,
		City:              record.City,
		Neighborhood:      record.Neighborhood,
		Status:            record.Status,
		URL:               record.URL,
		FinalScore:        roundTo(score.FinalScore, 1),
		Explanation:       explanation,
		PriceTier:         record.PriceTier,
		PublicRating:      record.PublicRating,
		PublicReviewCount: record.PublicReviewCount,
		PublicVibe:        record.PublicVibe,
		PublicVibeSource:  record.PublicVibeSource,
		PublicVibeModel:   record.PublicVibeModel,
		DistanceKm:        score.DistanceKm,
		MatchedReasons:    score.MatchedReasons,
	}
}

// NormalizeCity maps free-form city input ("nyc", "New York", "milan") to its
// canonical name. Unknown input is returned trimmed.
func NormalizeCity(city string) string {
	trimmed := strings.TrimSpace(city)
	if trimmed == "" {
		return ""
	}
	lower := strings.ToLower(trimmed)
	for _, rule := range cityRules {
		if lower == strings.ToLower(rule.City) {
			return rule.City
		}
		for _, trigger := range rule.Triggers {
			if lower == trigger {
				return rule.City
			}
		}
	}
	return trimmed
}
