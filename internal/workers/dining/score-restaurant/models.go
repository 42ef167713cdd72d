// internal/workers/dining/score-restaurant/models.go
package scorerestaurant

import "dining-recommender/internal/models"

// Input scores one restaurant. ParsedQuery wins over Query when both are set.
type Input struct {
	Restaurant  models.RestaurantRecord `json:"restaurant"`
	ParsedQuery *models.ParsedQuery     `json:"parsedQuery,omitempty"`
	Query       string                  `json:"query,omitempty"`
	Coordinate  *models.Coordinate      `json:"coordinate,omitempty"`
}

type Output struct {
	Score       models.ScoreResult `json:"score"`
	Explanation string             `json:"explanation"`
}
