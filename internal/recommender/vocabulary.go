package recommender

import "dining-recommender/internal/models"

// keywordRule maps one tag to the phrases that trigger it.
type keywordRule struct {
	Tag      string
	Triggers []string
}

// cityRule maps trigger phrases to a canonical city. Rules are checked in order.
type cityRule struct {
	City     string
	Triggers []string
}

// neighborhoodTable lists the known neighborhoods of one city.
type neighborhoodTable struct {
	City  string
	Names []string
}

var cityRules = []cityRule{
	{City: models.CityNYC, Triggers: []string{"nyc", "new york", "new york city"}},
	{City: models.CityMilan, Triggers: []string{"milan"}},
}

var neighborhoodTables = []neighborhoodTable{
	{
		City: models.CityNYC,
		Names: []string{
			"soho", "williamsburg", "east village", "west village", "lower east side",
			"upper east side", "upper west side", "chelsea", "greenwich village",
			"tribeca", "chinatown", "koreatown", "ktown", "lic", "long island city",
			"flatiron",
		},
	},
	{
		City:  models.CityMilan,
		Names: []string{"navigli", "brera", "duomo", "porta nuova", "isola", "garibaldi"},
	},
}

var vibeRules = []keywordRule{
	{Tag: "romantic", Triggers: []string{"romantic", "romance", "date", "date night", "intimate"}},
	{Tag: "cozy", Triggers: []string{"cozy", "cute", "warm", "intimate"}},
	{Tag: "casual", Triggers: []string{"casual", "chill", "relaxed", "laid back"}},
	{Tag: "trendy", Triggers: []string{"trendy", "vibey", "vibe", "hip", "cool"}},
	{Tag: "upscale", Triggers: []string{"upscale", "fancy", "fine dining", "elegant", "sophisticated"}},
	{Tag: "loud", Triggers: []string{"loud", "buzzing", "energetic"}},
	{Tag: "classic", Triggers: []string{"classic", "traditional"}},
	{Tag: "modern", Triggers: []string{"modern", "contemporary"}},
}

var bestForRules = []keywordRule{
	{Tag: "date", Triggers: []string{"date", "romantic", "romance", "intimate"}},
	{Tag: "friends", Triggers: []string{"friends", "group", "with friends"}},
	{Tag: "solo", Triggers: []string{"solo", "alone", "by myself"}},
	{Tag: "parents", Triggers: []string{"parents", "family", "with family"}},
	{Tag: "celebration", Triggers: []string{"celebration", "birthday", "anniversary", "special"}},
	{Tag: "work_meeting", Triggers: []string{"work", "business", "meeting", "lunch meeting"}},
	{Tag: "quick_bite", Triggers: []string{"quick", "fast", "lunch", "grab", "quick bite"}},
	{Tag: "late_night", Triggers: []string{"late night", "late-night", "after hours"}},
}

// Cheap is checked before expensive.
var priceRules = []keywordRule{
	{Tag: models.PriceHintCheap, Triggers: []string{"cheap", "affordable", "budget", "inexpensive"}},
	{Tag: models.PriceHintExpensive, Triggers: []string{"expensive", "pricey", "upscale", "fancy"}},
}

var cuisineTerms = []string{
	"italian", "pasta", "pizza", "chinese", "korean", "japanese", "sushi", "thai",
	"indian", "french", "mexican", "tacos", "bbq", "seafood", "steak", "ramen",
	"dumplings", "mediterranean",
}

// vibePhrases renders a matched vibe tag. Tags without an entry use "<tag> vibes".
var vibePhrases = map[string]string{
	"upscale":  "upscale and elegant",
	"romantic": "romantic and intimate",
	"casual":   "casual and relaxed",
	"cozy":     "cozy and warm",
}

// bestForPhrases renders a matched best-for tag. Tags without an entry add nothing.
var bestForPhrases = map[string]string{
	"date":       "perfect for dates",
	"friends":    "great with friends",
	"quick_bite": "quick and easy",
}

// noteMarker turns a personal note into a canned phrase when every entry of
// All is present and at least one entry of Any is present.
type noteMarker struct {
	Any    []string
	All    []string
	Phrase string
}

var noteMarkers = []noteMarker{
	{Any: []string{"favorite", "fav"}, Phrase: "one of my favorites"},
	{Any: []string{"love", "loved"}, Phrase: "I loved it"},
	{Any: []string{"really good", "super good"}, Phrase: "really good food"},
	{Any: []string{"best"}, Phrase: "the best"},
	{Any: []string{"cute"}, All: []string{"vibe"}, Phrase: "super cute vibes"},
	{Any: []string{"authentic"}, Phrase: "authentic"},
	{Any: []string{"cheap", "affordable"}, Phrase: "great value"},
}

// bannedPhrases never appear in an explanation.
var bannedPhrases = []string{
	"review", "reviews say", "people say", "according to", "users say", "customers say",
}
