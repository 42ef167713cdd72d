package recommender

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"dining-recommender/internal/models"
)

const (
	maxReasons         = 2
	fallbackNoteWords  = 5
	minNoteFallbackLen = 3
	defaultExplanation = "a great match"
)

// Explain builds a one-sentence justification from at most two reasons plus
// an optional public-proof suffix.
func Explain(record models.RestaurantRecord, q models.ParsedQuery, score models.ScoreResult) string {
	reasons := make([]string, 0, 4)

	if score.HasReason(models.ReasonNeighborhoodMatch) {
		hood := strings.TrimSpace(record.Neighborhood)
		if hood != "" && !containsAny(strings.ToLower(hood), bannedPhrases) {
			reasons = append(reasons, "in "+hood)
		}
	}

	if vibe, ok := firstShared(q.VibeKeywords, record.Vibe); ok {
		if phrase, found := vibePhrases[vibe]; found {
			reasons = append(reasons, phrase)
		} else {
			reasons = append(reasons, vibe+" vibes")
		}
	}

	if tag, ok := firstShared(q.BestForKeywords, record.BestFor); ok {
		if phrase, found := bestForPhrases[tag]; found {
			reasons = append(reasons, phrase)
		}
	}

	if phrase := notePhrase(record); phrase != "" {
		reasons = append(reasons, phrase)
	}

	if len(reasons) < maxReasons {
		switch record.Status {
		case models.StatusTried:
			if record.Confidence == "high" {
				reasons = append(reasons, "I highly recommend")
			} else {
				reasons = append(reasons, "I've tried and liked")
			}
		case models.StatusWantToTry:
			reasons = append(reasons, "on my list to try")
		}
	}

	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}

	explanation := defaultExplanation
	if len(reasons) > 0 {
		explanation = strings.Join(reasons, ", ")
	}

	return explanation + publicProof(record)
}

// firstShared returns the first query tag, in query order, that the record carries.
func firstShared(queryTags []string, recordTags models.TagSet) (string, bool) {
	for _, tag := range queryTags {
		if recordTags.Contains(tag) {
			return tag, true
		}
	}
	return "", false
}

func notePhrase(record models.RestaurantRecord) string {
	if !record.HasNote() {
		return ""
	}
	note := strings.TrimSpace(record.PersonalNote)
	lower := strings.ToLower(note)

	for _, marker := range noteMarkers {
		if containsAny(lower, marker.Any) && containsAll(lower, marker.All) {
			return marker.Phrase
		}
	}

	words := strings.Fields(note)
	if len(words) > fallbackNoteWords {
		words = words[:fallbackNoteWords]
	}
	if len(words) < minNoteFallbackLen {
		return ""
	}
	phrase := strings.ToLower(strings.Join(words, " "))
	if containsAny(phrase, bannedPhrases) {
		return ""
	}
	return phrase
}

// publicProof renders the rating suffix. Both rating and count must be present.
func publicProof(record models.RestaurantRecord) string {
	if record.PublicRating == nil || record.PublicReviewCount == nil {
		return ""
	}
	rating := *record.PublicRating
	count := *record.PublicReviewCount

	switch {
	case rating >= 4.5 && count >= 100:
		return fmt.Sprintf(" (%.1f★, %s ratings)", rating, humanize.Comma(int64(count)))
	case rating >= 4.0:
		return fmt.Sprintf(" (%.1f★)", rating)
	}
	return ""
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
