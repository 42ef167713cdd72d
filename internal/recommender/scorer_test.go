package recommender

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dining-recommender/internal/geo"
	"dining-recommender/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func baseRecord() models.RestaurantRecord {
	return models.RestaurantRecord{
		ID:             "r1",
		Name:           "Test Kitchen",
		City:           models.CityNYC,
		Neighborhood:   "SoHo",
		Status:         models.StatusTried,
		PersonalNote:   models.NoNotePlaceholder,
		WouldRecommend: "yes",
		Confidence:     "high",
		Vibe:           models.TagSet{},
		BestFor:        models.TagSet{},
		FoodStrength:   models.TagSet{},
		Dealbreakers:   models.TagSet{},
	}
}

// northOf returns the point km kilometers due north of origin.
func northOf(origin models.Coordinate, km float64) models.Coordinate {
	return models.Coordinate{Lat: origin.Lat + km/(geo.EarthRadiusKm*math.Pi/180), Lon: origin.Lon}
}

// ==========================
// Match component
// ==========================

func TestScore_Match(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(r *models.RestaurantRecord)
		query       string
		wantMatch   float64
		wantReasons []string
	}{
		{
			name:        "no city in query",
			query:       "somewhere nice",
			wantMatch:   10,
			wantReasons: []string{},
		},
		{
			name:        "city match",
			query:       "dinner in nyc",
			wantMatch:   15,
			wantReasons: []string{models.ReasonCityMatch},
		},
		{
			name:        "city mismatch",
			mutate:      func(r *models.RestaurantRecord) { r.City = models.CityMilan },
			query:       "dinner in nyc",
			wantMatch:   0,
			wantReasons: []string{},
		},
		{
			name:        "neighborhood substring is case insensitive",
			query:       "romantic dinner in SoHo",
			wantMatch:   25,
			wantReasons: []string{models.ReasonCityMatch, models.ReasonNeighborhoodMatch},
		},
		{
			name: "tags in evaluation order",
			mutate: func(r *models.RestaurantRecord) {
				r.Vibe = models.TagSet{"romantic", "cozy"}
				r.BestFor = models.TagSet{"date"}
				r.FoodStrength = models.TagSet{"pasta"}
			},
			query:     "cozy romantic date with pasta",
			wantMatch: 10 + 5 + 5 + 5 + 3,
			wantReasons: []string{
				"vibe_romantic", "vibe_cozy", "best_for_date", "cuisine_pasta",
			},
		},
		{
			name: "component clamps at 40",
			mutate: func(r *models.RestaurantRecord) {
				r.Vibe = models.TagSet{"romantic", "cozy", "trendy", "upscale"}
				r.BestFor = models.TagSet{"date", "friends", "celebration"}
				r.FoodStrength = models.TagSet{"pasta", "pizza"}
			},
			query:     "romantic cozy trendy fancy date with friends birthday in soho, pasta and pizza",
			wantMatch: 40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := baseRecord()
			if tt.mutate != nil {
				tt.mutate(&record)
			}
			result := Score(record, Parse(tt.query), nil)

			assert.Equal(t, tt.wantMatch, result.MatchScore)
			if tt.wantReasons != nil {
				assert.Equal(t, tt.wantReasons, result.MatchedReasons)
			}
		})
	}
}

func TestScore_Distance(t *testing.T) {
	origin := models.Coordinate{Lat: 40.7233, Lon: -74.0030}

	tests := []struct {
		name       string
		km         float64
		wantBonus  float64
		wantReason string
	}{
		{name: "very close", km: 1.5, wantBonus: 10, wantReason: models.ReasonDistanceVeryClose},
		{name: "close", km: 4, wantBonus: 5, wantReason: models.ReasonDistanceClose},
		{name: "nearby", km: 7, wantBonus: 2, wantReason: models.ReasonDistanceNearby},
		{name: "far", km: 15, wantBonus: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := northOf(origin, tt.km)
			record := baseRecord()
			record.Latitude = floatPtr(loc.Lat)
			record.Longitude = floatPtr(loc.Lon)

			q := Parse("anything")
			result := Score(record, q, &origin)

			assert.Equal(t, noCityPoints+tt.wantBonus, result.MatchScore)
			require.NotNil(t, result.DistanceKm)
			assert.InDelta(t, tt.km, *result.DistanceKm, 0.05)

			for _, r := range []string{models.ReasonDistanceVeryClose, models.ReasonDistanceClose, models.ReasonDistanceNearby} {
				assert.Equal(t, r == tt.wantReason, result.HasReason(r), r)
			}
		})
	}
}

func TestScore_DistanceNeedsBothCoordinates(t *testing.T) {
	origin := models.Coordinate{Lat: 40.72, Lon: -74.0}

	record := baseRecord()
	record.Latitude = floatPtr(40.72)

	result := Score(record, Parse("anything"), &origin)
	assert.Nil(t, result.DistanceKm)

	record.Longitude = floatPtr(-74.0)
	result = Score(record, Parse("anything"), nil)
	assert.Nil(t, result.DistanceKm)
}

// ==========================
// Taste component
// ==========================

func TestScore_Taste(t *testing.T) {
	tests := []struct {
		status, confidence, recommend string
		want                          float64
	}{
		{models.StatusTried, "high", "", 40},
		{models.StatusTried, "high", "yes", 40},
		{models.StatusTried, "medium", "", 28},
		{models.StatusTried, "medium", "yes", 34},
		{models.StatusTried, "low", "maybe", 20},
		{models.StatusTried, "", "", 28},
		{models.StatusTried, "unsure", "", 28},
		{models.StatusWantToTry, "", "", 12},
		{models.StatusWantToTry, "", "yes", 18},
		{"closed", "", "", 10},
		{models.StatusTried, "low", "no", 0},
		{models.StatusTried, "high", "no", 10},
	}

	for _, tt := range tests {
		record := baseRecord()
		record.Status = tt.status
		record.Confidence = tt.confidence
		record.WouldRecommend = tt.recommend

		got := Score(record, Parse(""), nil).TasteScore
		assert.Equal(t, tt.want, got, "%s/%s/%s", tt.status, tt.confidence, tt.recommend)
	}
}

// ==========================
// Public component
// ==========================

func TestScore_Public(t *testing.T) {
	tests := []struct {
		name   string
		rating *float64
		count  *int
		want   float64
	}{
		{name: "rating and count", rating: floatPtr(4.8), count: intPtr(250), want: 11.196},
		{name: "absent", want: 0},
		{name: "rating below floor", rating: floatPtr(3.4), want: 0},
		{name: "rating at floor", rating: floatPtr(3.5), want: 0},
		{name: "rating at five", rating: floatPtr(5.0), want: 12},
		{name: "rating above five", rating: floatPtr(7), want: 12},
		{name: "count exactly 100", count: intPtr(100), want: 0},
		{name: "count below 100", count: intPtr(12), want: 0},
		{name: "count 10000 follows the log formula not saturation", count: intPtr(10000), want: 4},
		{name: "count saturates at one million", count: intPtr(1000000), want: 8},
		{name: "count above one million", count: intPtr(2500000), want: 8},
		{name: "zero count", count: intPtr(0), want: 0},
		{name: "both maxed", rating: floatPtr(5.0), count: intPtr(5000000), want: 20},
		{name: "nan rating", rating: floatPtr(math.NaN()), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := baseRecord()
			record.PublicRating = tt.rating
			record.PublicReviewCount = tt.count

			assert.InDelta(t, tt.want, Score(record, Parse(""), nil).PublicScore, 0.01)
		})
	}
}

// ==========================
// Final score and the not-recommended cap
// ==========================

func TestScore_NotRecommendedCap(t *testing.T) {
	record := baseRecord()
	record.WouldRecommend = "no"
	record.Confidence = ""
	record.Vibe = models.TagSet{"romantic"}
	record.BestFor = models.TagSet{"date"}
	record.PublicRating = floatPtr(4.9)
	record.PublicReviewCount = intPtr(20000)

	result := Score(record, Parse("romantic dinner in SoHo"), nil)

	assert.LessOrEqual(t, result.FinalScore, notRecommendedCap)
	assert.Equal(t, 35.0, result.MatchScore)
	assert.Equal(t, 0.0, result.TasteScore)
	assert.Greater(t, result.ComponentSum(), result.FinalScore, "components are not rescaled")
}

func TestScore_NotRecommendedCapLiftedByName(t *testing.T) {
	record := baseRecord()
	record.Name = "Sushi"
	record.WouldRecommend = "no"
	record.Confidence = "high"
	record.FoodStrength = models.TagSet{"sushi"}

	result := Score(record, Parse("sushi in soho"), nil)

	assert.Equal(t, result.ComponentSum(), result.FinalScore)
	assert.Greater(t, result.FinalScore, notRecommendedCap)
}

func TestScore_Bounds(t *testing.T) {
	queries := []string{
		"", "romantic dinner in SoHo", "cheap tacos in milan", "cozy date night with friends, pasta",
		"fancy celebration in williamsburg", "late night ramen in ktown",
	}
	statuses := []string{models.StatusTried, models.StatusWantToTry, ""}
	confidences := []string{"high", "medium", "low", ""}
	recommends := []string{"yes", "maybe", "no", ""}
	ratings := []*float64{nil, floatPtr(2.0), floatPtr(4.6), floatPtr(9.9)}
	counts := []*int{nil, intPtr(0), intPtr(150), intPtr(1000000)}

	for _, query := range queries {
		q := Parse(query)
		for _, status := range statuses {
			for _, confidence := range confidences {
				for _, recommend := range recommends {
					for i := range ratings {
						record := baseRecord()
						record.Status = status
						record.Confidence = confidence
						record.WouldRecommend = recommend
						record.PublicRating = ratings[i]
						record.PublicReviewCount = counts[i]
						record.Vibe = models.TagSet{"romantic", "cozy", "upscale"}
						record.BestFor = models.TagSet{"date", "friends", "celebration", "late_night"}
						record.FoodStrength = models.TagSet{"pasta", "tacos", "ramen"}

						s := Score(record, q, nil)
						assert.GreaterOrEqual(t, s.MatchScore, 0.0)
						assert.LessOrEqual(t, s.MatchScore, maxMatchScore)
						assert.GreaterOrEqual(t, s.TasteScore, 0.0)
						assert.LessOrEqual(t, s.TasteScore, maxTasteScore)
						assert.GreaterOrEqual(t, s.PublicScore, 0.0)
						assert.LessOrEqual(t, s.PublicScore, maxPublicScore)
						assert.LessOrEqual(t, s.FinalScore, s.ComponentSum())
						if recommend != "no" {
							assert.Equal(t, s.ComponentSum(), s.FinalScore)
						}
					}
				}
			}
		}
	}
}
