package dataset

import (
	"fmt"
	"sort"
	"strings"

	"dining-recommender/internal/models"
)

// Controlled vocabularies of the curated dataset.
var (
	Cities          = []string{models.CityNYC, models.CityMilan}
	Statuses        = []string{models.StatusTried, models.StatusWantToTry}
	WouldRecommend  = []string{"yes", "no", "maybe"}
	ConfidenceLevel = []string{"high", "medium", "low"}

	VibeTags         = []string{"cozy", "loud", "trendy", "romantic", "casual", "upscale", "tiny", "buzzing", "classic", "modern"}
	BestForTags      = []string{"date", "friends", "solo", "parents", "celebration", "work_meeting", "quick_bite", "late_night"}
	FoodStrengthTags = []string{"pasta", "steak", "sushi", "pizza", "seafood", "bbq", "dumplings", "ramen", "tacos", "thai", "indian", "mediterranean", "cafe", "cocktails", "wine", "dessert", "bakery"}
	DealbreakerTags  = []string{"too_loud", "touristy", "overpriced", "long_wait", "bad_service", "hard_to_book"}
)

const (
	minRating    = 0.0
	maxRating    = 5.0
	minPriceTier = 1
	maxPriceTier = 4
)

// Issue is one vocabulary or sanity problem in a record.
type Issue struct {
	RestaurantID string `json:"restaurantId"`
	Field        string `json:"field"`
	Message      string `json:"message"`
}

// Report summarizes a validation pass. Issues never block ranking.
type Report struct {
	RecordCount int     `json:"recordCount"`
	Issues      []Issue `json:"issues"`
}

func (r Report) Valid() bool {
	return len(r.Issues) == 0
}

// Validate checks every record against the controlled vocabularies.
func Validate(records []models.RestaurantRecord) Report {
	report := Report{RecordCount: len(records), Issues: []Issue{}}
	add := func(id, field, format string, args ...interface{}) {
		report.Issues = append(report.Issues, Issue{RestaurantID: id, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	urls := make(map[string]string)
	for _, r := range records {
		if strings.TrimSpace(r.Name) == "" {
			add(r.ID, "name", "name is empty")
		}
		if strings.TrimSpace(r.PersonalNote) == "" {
			add(r.ID, "your_note", "note is empty, use %q for no note", models.NoNotePlaceholder)
		}
		checkValue(r.ID, "city", r.City, Cities, add)
		checkValue(r.ID, "status", r.Status, Statuses, add)
		checkValue(r.ID, "would_recommend", r.WouldRecommend, WouldRecommend, add)
		checkValue(r.ID, "confidence", r.Confidence, ConfidenceLevel, add)
		checkTags(r.ID, "vibe", r.Vibe, VibeTags, add)
		checkTags(r.ID, "best_for", r.BestFor, BestForTags, add)
		checkTags(r.ID, "food_strength", r.FoodStrength, FoodStrengthTags, add)
		checkTags(r.ID, "dealbreakers", r.Dealbreakers, DealbreakerTags, add)

		if r.PublicRating != nil && (*r.PublicRating < minRating || *r.PublicRating > maxRating) {
			add(r.ID, "public_rating", "rating %.2f outside %.0f-%.0f", *r.PublicRating, minRating, maxRating)
		}
		if r.PublicReviewCount != nil && *r.PublicReviewCount < 0 {
			add(r.ID, "public_review_count", "count %d is negative", *r.PublicReviewCount)
		}
		if r.PriceTier != nil && (*r.PriceTier < minPriceTier || *r.PriceTier > maxPriceTier) {
			add(r.ID, "price_tier", "tier %d outside %d-%d", *r.PriceTier, minPriceTier, maxPriceTier)
		}

		if url := strings.TrimSpace(r.URL); url != "" {
			if other, dup := urls[url]; dup {
				add(r.ID, "google_maps_url", "same url as %s", other)
			} else {
				urls[url] = r.ID
			}
		}
	}
	return report
}

func checkValue(id, field, value string, allowed []string, add func(id, field, format string, args ...interface{})) {
	if !contains(allowed, value) {
		add(id, field, "%q is not one of %s", value, strings.Join(allowed, ", "))
	}
}

func checkTags(id, field string, tags models.TagSet, allowed []string, add func(id, field, format string, args ...interface{})) {
	var unknown []string
	for _, tag := range tags {
		if !contains(allowed, tag) {
			unknown = append(unknown, tag)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		add(id, field, "unknown tags %s", strings.Join(unknown, ", "))
	}
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
