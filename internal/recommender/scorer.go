package recommender

import (
	"math"
	"strings"

	"dining-recommender/internal/geo"
	"dining-recommender/internal/models"
)

const (
	maxMatchScore  = 40.0
	maxTasteScore  = 40.0
	maxPublicScore = 20.0

	cityMatchPoints     = 15.0
	noCityPoints        = 10.0
	neighborhoodPoints  = 10.0
	vibePoints          = 5.0
	bestForPoints       = 5.0
	cuisinePoints       = 3.0
	maxRatingPoints     = 12.0
	maxReviewCountPoint = 8.0

	// Cap applied to final_score for would_recommend=no records whose name
	// the query does not mention.
	notRecommendedCap = 10.0
)

type distanceTier struct {
	MaxKm  float64
	Points float64
	Reason string
}

// Tiers are checked closest first; the first hit wins.
var distanceTiers = []distanceTier{
	{MaxKm: 2, Points: 10, Reason: models.ReasonDistanceVeryClose},
	{MaxKm: 5, Points: 5, Reason: models.ReasonDistanceClose},
	{MaxKm: 10, Points: 2, Reason: models.ReasonDistanceNearby},
}

// Score rates one record against a parsed query. coord is the resolved query
// location and may be nil. Score is pure and never fails.
func Score(record models.RestaurantRecord, q models.ParsedQuery, coord *models.Coordinate) models.ScoreResult {
	reasons := []string{}

	match, distance := matchScore(record, q, coord, &reasons)
	taste := tasteScore(record)
	public := publicScore(record)

	final := match + taste + public
	if record.WouldRecommend == "no" {
		name := strings.ToLower(strings.TrimSpace(record.Name))
		if !strings.Contains(q.Text(), name) {
			final = math.Min(final, notRecommendedCap)
		}
	}

	return models.ScoreResult{
		FinalScore:     final,
		MatchScore:     match,
		TasteScore:     taste,
		PublicScore:    public,
		MatchedReasons: reasons,
		DistanceKm:     distance,
	}
}

func matchScore(record models.RestaurantRecord, q models.ParsedQuery, coord *models.Coordinate, reasons *[]string) (float64, *float64) {
	score := 0.0

	switch {
	case q.City != "" && strings.TrimSpace(record.City) == q.City:
		score += cityMatchPoints
		*reasons = append(*reasons, models.ReasonCityMatch)
	case q.City == "":
		score += noCityPoints
	}

	if q.Neighborhood != "" {
		hood := strings.ToLower(strings.TrimSpace(record.Neighborhood))
		if strings.Contains(hood, strings.ToLower(q.Neighborhood)) {
			score += neighborhoodPoints
			*reasons = append(*reasons, models.ReasonNeighborhoodMatch)
		}
	}

	var distance *float64
	if loc := record.Coordinate(); coord != nil && loc != nil {
		km := geo.Haversine(*coord, *loc)
		if !math.IsNaN(km) {
			rounded := roundTo(km, 1)
			distance = &rounded
			for _, tier := range distanceTiers {
				if km <= tier.MaxKm {
					score += tier.Points
					*reasons = append(*reasons, tier.Reason)
					break
				}
			}
		}
	}

	for _, vibe := range q.VibeKeywords {
		if record.Vibe.Contains(vibe) {
			score += vibePoints
			*reasons = append(*reasons, models.ReasonVibePrefix+vibe)
		}
	}
	for _, tag := range q.BestForKeywords {
		if record.BestFor.Contains(tag) {
			score += bestForPoints
			*reasons = append(*reasons, models.ReasonBestForPrefix+tag)
		}
	}
	for _, cuisine := range q.CuisineKeywords {
		if record.FoodStrength.Contains(cuisine) {
			score += cuisinePoints
			*reasons = append(*reasons, models.ReasonCuisinePrefix+cuisine)
		}
	}

	return clamp(score, 0, maxMatchScore), distance
}

func tasteScore(record models.RestaurantRecord) float64 {
	var score float64
	switch record.Status {
	case models.StatusTried:
		switch record.Confidence {
		case "high":
			score = 40
		case "low":
			score = 18
		default: // medium or unknown
			score = 28
		}
	case models.StatusWantToTry:
		score = 12
	default:
		score = 10
	}

	switch record.WouldRecommend {
	case "yes":
		score += 6
	case "maybe":
		score += 2
	case "no":
		score -= 30
	}

	return clamp(score, 0, maxTasteScore)
}

func publicScore(record models.RestaurantRecord) float64 {
	score := 0.0

	if r := record.PublicRating; r != nil && !math.IsNaN(*r) {
		switch {
		case *r > 5.0:
			score += maxRatingPoints
		case *r >= 3.5:
			score += (*r - 3.5) / 1.5 * maxRatingPoints
		}
	}

	if c := record.PublicReviewCount; c != nil && *c > 0 {
		l := math.Log10(math.Max(100, float64(*c)))
		score += clamp((l-2)*2, 0, maxReviewCountPoint)
	}

	return clamp(score, 0, maxPublicScore)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
