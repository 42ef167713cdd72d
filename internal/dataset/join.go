package dataset

import (
	"fmt"
	"sort"
	"strings"

	"dining-recommender/internal/models"
)

// MasterRow is one row of restaurants_master.
type MasterRow struct {
	ID                string
	Name              string
	City              string
	Neighborhood      string
	Status            string
	Note              string
	URL               string
	PriceTier         *int
	PublicRating      *float64
	PublicReviewCount *int
	Latitude          *float64
	Longitude         *float64
}

// ExperienceRow is one row of experience_signals.
type ExperienceRow struct {
	ID             string
	WouldRecommend string
	Confidence     string
	BestFor        models.TagSet
	Vibe           models.TagSet
	FoodStrength   models.TagSet
	Dealbreakers   models.TagSet
}

// PublicRow is one row of public_signals.
type PublicRow struct {
	ID                string
	PublicRating      *float64
	PublicReviewCount *int
	PriceTier         *int
	PublicVibe        string
	PublicVibeSource  string
	PublicVibeModel   string
}

// Join merges the three tables on restaurant id, in master order.
// Any disagreement between the tables fails the whole snapshot with *IntegrityError.
// Public values take precedence over the same fields in master when present.
func Join(master []MasterRow, experience []ExperienceRow, public []PublicRow) ([]models.RestaurantRecord, error) {
	var problems []string

	masterIDs := make([]string, len(master))
	for i, m := range master {
		masterIDs[i] = m.ID
	}
	experienceIDs := make([]string, len(experience))
	expByID := make(map[string]ExperienceRow, len(experience))
	for i, e := range experience {
		experienceIDs[i] = e.ID
		expByID[strings.TrimSpace(e.ID)] = e
	}
	publicIDs := make([]string, len(public))
	pubByID := make(map[string]PublicRow, len(public))
	for i, p := range public {
		publicIDs[i] = p.ID
		pubByID[strings.TrimSpace(p.ID)] = p
	}

	problems = append(problems, checkIDs("restaurants_master", masterIDs)...)
	problems = append(problems, checkIDs("experience_signals", experienceIDs)...)
	problems = append(problems, checkIDs("public_signals", publicIDs)...)

	if len(experience) != len(master) {
		problems = append(problems, fmt.Sprintf("experience_signals has %d rows, restaurants_master has %d", len(experience), len(master)))
	}
	if len(public) != len(master) {
		problems = append(problems, fmt.Sprintf("public_signals has %d rows, restaurants_master has %d", len(public), len(master)))
	}

	inMaster := make(map[string]bool, len(master))
	for _, id := range masterIDs {
		inMaster[strings.TrimSpace(id)] = true
	}
	problems = append(problems, orphans("experience_signals", experienceIDs, inMaster)...)
	problems = append(problems, orphans("public_signals", publicIDs, inMaster)...)

	for _, id := range masterIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := expByID[id]; !ok {
			problems = append(problems, fmt.Sprintf("restaurant %s missing from experience_signals", id))
		}
		if _, ok := pubByID[id]; !ok {
			problems = append(problems, fmt.Sprintf("restaurant %s missing from public_signals", id))
		}
	}

	if len(problems) > 0 {
		return nil, &IntegrityError{Problems: problems}
	}

	records := make([]models.RestaurantRecord, 0, len(master))
	for _, m := range master {
		id := strings.TrimSpace(m.ID)
		records = append(records, merge(m, expByID[id], pubByID[id]))
	}
	return records, nil
}

func merge(m MasterRow, e ExperienceRow, p PublicRow) models.RestaurantRecord {
	record := models.RestaurantRecord{
		ID:                strings.TrimSpace(m.ID),
		Name:              strings.TrimSpace(m.Name),
		City:              strings.TrimSpace(m.City),
		Neighborhood:      strings.TrimSpace(m.Neighborhood),
		Status:            strings.TrimSpace(m.Status),
		PersonalNote:      strings.TrimSpace(m.Note),
		URL:               strings.TrimSpace(m.URL),
		WouldRecommend:    strings.TrimSpace(e.WouldRecommend),
		Confidence:        strings.TrimSpace(e.Confidence),
		Vibe:              nonNil(e.Vibe),
		BestFor:           nonNil(e.BestFor),
		FoodStrength:      nonNil(e.FoodStrength),
		Dealbreakers:      nonNil(e.Dealbreakers),
		PublicRating:      m.PublicRating,
		PublicReviewCount: m.PublicReviewCount,
		PriceTier:         m.PriceTier,
		PublicVibe:        strings.TrimSpace(p.PublicVibe),
		PublicVibeSource:  strings.TrimSpace(p.PublicVibeSource),
		PublicVibeModel:   strings.TrimSpace(p.PublicVibeModel),
		Latitude:          m.Latitude,
		Longitude:         m.Longitude,
	}
	if p.PublicRating != nil {
		record.PublicRating = p.PublicRating
	}
	if p.PublicReviewCount != nil {
		record.PublicReviewCount = p.PublicReviewCount
	}
	if p.PriceTier != nil {
		record.PriceTier = p.PriceTier
	}
	return record
}

// checkIDs reports blank and duplicated ids within one table.
func checkIDs(table string, ids []string) []string {
	var problems []string
	counts := make(map[string]int, len(ids))
	blank := 0
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			blank++
			continue
		}
		counts[id]++
	}
	if blank > 0 {
		problems = append(problems, fmt.Sprintf("%s has %d rows without restaurant_id", table, blank))
	}
	dups := make([]string, 0)
	for id, n := range counts {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	sort.Strings(dups)
	for _, id := range dups {
		problems = append(problems, fmt.Sprintf("%s has duplicate restaurant_id %s", table, id))
	}
	return problems
}

func orphans(table string, ids []string, inMaster map[string]bool) []string {
	var problems []string
	seen := make(map[string]bool)
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || inMaster[id] || seen[id] {
			continue
		}
		seen[id] = true
		problems = append(problems, fmt.Sprintf("%s has orphan restaurant_id %s", table, id))
	}
	return problems
}

func nonNil(s models.TagSet) models.TagSet {
	if s == nil {
		return models.TagSet{}
	}
	return s
}
