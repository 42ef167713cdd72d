// internal/workers/dining/parse-dining-query/models.go
package parsediningquery

import "dining-recommender/internal/models"

type Input struct {
	Query string `json:"query"`
	City  string `json:"city,omitempty"`
}

type Output struct {
	ParsedQuery  models.ParsedQuery `json:"parsedQuery"`
	LocationText string             `json:"locationText"`
}
