// internal/models/query.go
package models

import "strings"

// Price hints recognised by the query parser.
const (
	PriceHintCheap     = "cheap"
	PriceHintExpensive = "expensive"
)

// ParsedQuery is the structured intent extracted from one free-text query.
// Keyword slices follow vocabulary table order.
type ParsedQuery struct {
	City            string   `json:"city,omitempty"`
	Neighborhood    string   `json:"neighborhood,omitempty"`
	VibeKeywords    []string `json:"vibe_keywords"`
	BestForKeywords []string `json:"best_for_keywords"`
	CuisineKeywords []string `json:"cuisine_keywords"`
	PriceHint       string   `json:"price_hint,omitempty"`
}

// Text joins the query-derived fields into one lowercased string. The
// would_recommend=no cap is lifted only for names found in this text.
func (q ParsedQuery) Text() string {
	parts := []string{
		q.City,
		q.Neighborhood,
		strings.Join(q.VibeKeywords, " "),
		strings.Join(q.BestForKeywords, " "),
		strings.Join(q.CuisineKeywords, " "),
	}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.ToLower(strings.Join(nonEmpty, " "))
}

// LocationText is the geocoding input: "<neighborhood>, <city>" with blanks dropped.
func (q ParsedQuery) LocationText() string {
	var parts []string
	if q.Neighborhood != "" {
		parts = append(parts, q.Neighborhood)
	}
	if q.City != "" {
		parts = append(parts, q.City)
	}
	return strings.Join(parts, ", ")
}
