// internal/workers/dining/recommend-restaurants/models.go
package recommendrestaurants

import "dining-recommender/internal/models"

type Input struct {
	Query        string   `json:"query"`
	TopN         int      `json:"topN,omitempty"`
	City         string   `json:"city,omitempty"`
	ExcludeNames []string `json:"excludeNames,omitempty"`
}

type Output struct {
	RunID       string                `json:"runId"`
	ParsedQuery models.ParsedQuery    `json:"parsedQuery"`
	Results     []models.RankedResult `json:"results"`
	Count       int                   `json:"count"`
}
