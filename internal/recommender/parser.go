package recommender

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"dining-recommender/internal/models"
)

// shortAliasLen is the longest neighborhood alias that must match as a whole
// word ("lic" would otherwise fire on "delicious").
const shortAliasLen = 3

// Parse extracts a structured intent from free text. Matching is
// case-insensitive and substring based; it never fails.
func Parse(text string) models.ParsedQuery {
	lower := strings.ToLower(text)

	q := models.ParsedQuery{
		VibeKeywords:    []string{},
		BestForKeywords: []string{},
		CuisineKeywords: []string{},
	}

	for _, rule := range cityRules {
		if containsAny(lower, rule.Triggers) {
			q.City = rule.City
			break
		}
	}

	if hood, city := matchNeighborhood(lower); hood != "" {
		q.Neighborhood = hood
		if q.City == "" {
			q.City = city
		}
	}

	q.VibeKeywords = matchRules(lower, vibeRules)
	q.BestForKeywords = matchRules(lower, bestForRules)

	for _, rule := range priceRules {
		if containsAny(lower, rule.Triggers) {
			q.PriceHint = rule.Tag
			break
		}
	}

	for _, term := range cuisineTerms {
		if strings.Contains(lower, term) {
			q.CuisineKeywords = append(q.CuisineKeywords, term)
		}
	}

	return q
}

func matchNeighborhood(lower string) (string, string) {
	for _, table := range neighborhoodTables {
		for _, name := range table.Names {
			if len(name) <= shortAliasLen {
				if containsWord(lower, name) {
					return name, table.City
				}
				continue
			}
			if strings.Contains(lower, name) {
				return name, table.City
			}
		}
	}
	return "", ""
}

func matchRules(lower string, rules []keywordRule) []string {
	tags := []string{}
	for _, rule := range rules {
		if containsAny(lower, rule.Triggers) {
			tags = append(tags, rule.Tag)
		}
	}
	return tags
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// containsWord reports whether word occurs in s bounded by non-alphanumerics.
func containsWord(s, word string) bool {
	for offset := 0; offset <= len(s)-len(word); {
		idx := strings.Index(s[offset:], word)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(word)
		if !isWordRune(lastRune(s[:start])) && !isWordRune(firstRune(s[end:])) {
			return true
		}
		offset = start + 1
	}
	return false
}

func firstRune(s string) rune {
	if s == "" {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func lastRune(s string) rune {
	if s == "" {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

func isWordRune(r rune) bool {
	if r == utf8.RuneError {
		return false
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
