// internal/models/score.go
package models

// Matched-reason tags emitted by the scorer. Vibe, best-for and cuisine
// matches are emitted as prefix + tag.
const (
	ReasonCityMatch         = "city_match"
	ReasonNeighborhoodMatch = "neighborhood_match"
	ReasonDistanceVeryClose = "distance_very_close"
	ReasonDistanceClose     = "distance_close"
	ReasonDistanceNearby    = "distance_nearby"

	ReasonVibePrefix    = "vibe_"
	ReasonBestForPrefix = "best_for_"
	ReasonCuisinePrefix = "cuisine_"
)

// ScoreResult is the bounded score of one record against one query.
//
// FinalScore equals the component sum unless the would_recommend=no cap
// lowered it; the components themselves are never rescaled.
type ScoreResult struct {
	FinalScore     float64  `json:"final_score"`
	MatchScore     float64  `json:"match_score"`
	TasteScore     float64  `json:"taste_score"`
	PublicScore    float64  `json:"public_score"`
	MatchedReasons []string `json:"matched_reasons"`
	DistanceKm     *float64 `json:"distance_km"`
}

// ComponentSum returns match + taste + public.
func (s ScoreResult) ComponentSum() float64 {
	return s.MatchScore + s.TasteScore + s.PublicScore
}

// HasReason reports whether the scorer emitted the given tag.
func (s ScoreResult) HasReason(reason string) bool {
	for _, r := range s.MatchedReasons {
		if r == reason {
			return true
		}
	}
	return false
}

// RankedResult is one entry of a recommendation list.
type RankedResult struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	City              string   `json:"city"`
	Neighborhood      string   `json:"neighborhood"`
	Status            string   `json:"status"`
	URL               string   `json:"url,omitempty"`
	FinalScore        float64  `json:"final_score"`
	Explanation       string   `json:"explanation"`
	PriceTier         *int     `json:"price_tier"`
	PublicRating      *float64 `json:"public_rating"`
	PublicReviewCount *int     `json:"public_review_count"`
	PublicVibe        string   `json:"public_vibe,omitempty"`
	PublicVibeSource  string   `json:"public_vibe_source,omitempty"`
	PublicVibeModel   string   `json:"public_vibe_model,omitempty"`
	DistanceKm        *float64 `json:"distance_km"`
	MatchedReasons    []string `json:"matched_reasons"`
}
