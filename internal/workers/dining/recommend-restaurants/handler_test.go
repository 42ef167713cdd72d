// internal/workers/dining/recommend-restaurants/handler_test.go
package recommendrestaurants

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "dining-recommender/internal/common/errors"
	"dining-recommender/internal/common/logger"
	"dining-recommender/internal/dataset"
	"dining-recommender/internal/models"
	"dining-recommender/internal/recommender"
)

// ==========================
// Test Helper Functions
// ==========================

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func record(id, name, city, status, confidence string) models.RestaurantRecord {
	return models.RestaurantRecord{
		ID:             id,
		Name:           name,
		City:           city,
		Status:         status,
		WouldRecommend: "yes",
		Confidence:     confidence,
		Vibe:           models.TagSet{},
		BestFor:        models.TagSet{},
		FoodStrength:   models.TagSet{},
		Dealbreakers:   models.TagSet{},
	}
}

func createTestRecords() []models.RestaurantRecord {
	return []models.RestaurantRecord{
		record("r1", "Lilia", models.CityNYC, models.StatusTried, "high"),
		record("r2", "Via Carota", models.CityNYC, models.StatusTried, "medium"),
		record("r3", "Dame", models.CityNYC, models.StatusTried, "low"),
		record("r4", "Torrisi", models.CityNYC, models.StatusWantToTry, ""),
		record("r5", "Semma", models.CityNYC, models.StatusWantToTry, ""),
		record("r6", "Trippa", models.CityMilan, models.StatusTried, "high"),
	}
}

func newTestHandler(t *testing.T, source dataset.Provider) *Handler {
	log := &testLogger{t: t}
	ranker := recommender.NewRanker(recommender.DefaultConfig(), source, nil, log)
	return NewHandler(LoadConfig(), ranker, nil, nil, log)
}

func staticSource(records []models.RestaurantRecord) dataset.Provider {
	return dataset.ProviderFunc(func(ctx context.Context) ([]models.RestaurantRecord, error) {
		return records, nil
	})
}

func names(results []models.RankedResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Name)
	}
	return out
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute(t *testing.T) {
	handler := newTestHandler(t, staticSource(createTestRecords()))

	output, err := handler.Execute(context.Background(), &Input{Query: "dinner in nyc"})
	require.NoError(t, err)

	_, err = uuid.Parse(output.RunID)
	assert.NoError(t, err)
	assert.Equal(t, models.CityNYC, output.ParsedQuery.City)
	assert.Equal(t, len(output.Results), output.Count)
	assert.Equal(t, []string{"Lilia", "Via Carota", "Dame", "Torrisi"}, names(output.Results))

	for i := 1; i < len(output.Results); i++ {
		assert.GreaterOrEqual(t, output.Results[i-1].FinalScore, output.Results[i].FinalScore)
	}
}

func TestHandler_Execute_Options(t *testing.T) {
	tests := []struct {
		name      string
		input     Input
		wantNames []string
	}{
		{
			name:      "top n",
			input:     Input{Query: "dinner in nyc", TopN: 2},
			wantNames: []string{"Lilia", "Via Carota"},
		},
		{
			name:      "exclude names case insensitive",
			input:     Input{Query: "dinner in nyc", ExcludeNames: []string{"lilia", " DAME "}},
			wantNames: []string{"Via Carota", "Torrisi"},
		},
		{
			name:      "city override",
			input:     Input{Query: "dinner in nyc", City: "milan"},
			wantNames: []string{"Trippa"},
		},
		{
			name:      "unknown city yields nothing",
			input:     Input{Query: "dinner", City: "Paris"},
			wantNames: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(t, staticSource(createTestRecords()))

			output, err := handler.Execute(context.Background(), &tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNames, names(output.Results))
			assert.Equal(t, len(tt.wantNames), output.Count)
		})
	}
}

func TestHandler_Execute_RunIDsAreUnique(t *testing.T) {
	handler := newTestHandler(t, staticSource(createTestRecords()))

	first, err := handler.Execute(context.Background(), &Input{Query: "dinner"})
	require.NoError(t, err)
	second, err := handler.Execute(context.Background(), &Input{Query: "dinner"})
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Results, second.Results)
}

// ==========================
// Errors
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		source   dataset.Provider
		input    Input
		wantCode apperrors.ErrorCode
	}{
		{
			name:     "empty query",
			source:   staticSource(createTestRecords()),
			input:    Input{Query: " "},
			wantCode: apperrors.ErrCodeInvalidQuery,
		},
		{
			name:     "negative top n",
			source:   staticSource(createTestRecords()),
			input:    Input{Query: "pizza", TopN: -1},
			wantCode: apperrors.ErrCodeInvalidInput,
		},
		{
			name: "integrity failure",
			source: dataset.ProviderFunc(func(ctx context.Context) ([]models.RestaurantRecord, error) {
				return nil, &dataset.IntegrityError{Problems: []string{"restaurant r9 missing from experience_signals"}}
			}),
			input:    Input{Query: "pizza"},
			wantCode: apperrors.ErrCodeDataIntegrityFailed,
		},
		{
			name: "load failure",
			source: dataset.ProviderFunc(func(ctx context.Context) ([]models.RestaurantRecord, error) {
				return nil, errors.New("connection refused")
			}),
			input:    Input{Query: "pizza"},
			wantCode: apperrors.ErrCodeDatasetLoadFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(t, tt.source)

			output, err := handler.Execute(context.Background(), &tt.input)
			require.Error(t, err)
			assert.Nil(t, output)
			assert.True(t, apperrors.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}
