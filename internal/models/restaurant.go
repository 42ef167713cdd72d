// internal/models/restaurant.go
package models

import (
	"encoding/json"
	"sort"
	"strings"
)

// Restaurant statuses.
const (
	StatusTried     = "tried"
	StatusWantToTry = "want_to_try"
)

// Canonical city names.
const (
	CityNYC   = "NYC"
	CityMilan = "Milan"
)

// NoNotePlaceholder marks a personal note that was left blank on purpose.
const NoNotePlaceholder = "-"

// TagDelimiter separates tags in the flat (CSV/SQL) serialization of a TagSet.
const TagDelimiter = "|"

// RestaurantRecord is one curated restaurant after joining the master,
// experience-signal and public-signal sources.
//
// String fields use "" for absent. Numeric public signals and coordinates are
// pointers: nil means absent, and malformed source values are mapped to nil by
// the providers before a record is built.
type RestaurantRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	City         string `json:"city"`
	Neighborhood string `json:"neighborhood"`
	Status       string `json:"status"`
	PersonalNote string `json:"personal_note"`
	URL          string `json:"url"`

	WouldRecommend string `json:"would_recommend"`
	Confidence     string `json:"confidence"`
	Vibe           TagSet `json:"vibe"`
	BestFor        TagSet `json:"best_for"`
	FoodStrength   TagSet `json:"food_strength"`
	Dealbreakers   TagSet `json:"dealbreakers"`

	PublicRating      *float64 `json:"public_rating"`
	PublicReviewCount *int     `json:"public_review_count"`
	PriceTier         *int     `json:"price_tier"`
	PublicVibe        string   `json:"public_vibe"`
	PublicVibeSource  string   `json:"public_vibe_source"`
	PublicVibeModel   string   `json:"public_vibe_model"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// HasNote reports whether the record carries a real personal note.
func (r RestaurantRecord) HasNote() bool {
	note := strings.TrimSpace(r.PersonalNote)
	return note != "" && note != NoNotePlaceholder
}

// Coordinate returns the record location, or nil when either axis is absent.
func (r RestaurantRecord) Coordinate() *Coordinate {
	if r.Latitude == nil || r.Longitude == nil {
		return nil
	}
	return &Coordinate{Lat: *r.Latitude, Lon: *r.Longitude}
}

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// TagSet is an order-insensitive set of controlled-vocabulary tags.
// It marshals to a JSON array and flattens to a pipe-delimited string.
type TagSet []string

// ParseTagSet splits a pipe-delimited tag list, trimming blanks and duplicates.
func ParseTagSet(raw string) TagSet {
	if strings.TrimSpace(raw) == "" {
		return TagSet{}
	}
	parts := strings.Split(raw, TagDelimiter)
	out := make(TagSet, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		tag := strings.TrimSpace(p)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// Contains reports whether tag is a member of the set.
func (s TagSet) Contains(tag string) bool {
	for _, t := range s {
		if t == tag {
			return true
		}
	}
	return false
}

// String renders the set in its canonical sorted, pipe-delimited form.
func (s TagSet) String() string {
	sorted := append([]string(nil), s...)
	sort.Strings(sorted)
	return strings.Join(sorted, TagDelimiter)
}

// UnmarshalJSON accepts either a JSON array or a pipe-delimited string.
func (s *TagSet) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = ParseTagSet(strings.Join(list, TagDelimiter))
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseTagSet(raw)
	return nil
}
