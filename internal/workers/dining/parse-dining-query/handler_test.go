// internal/workers/dining/parse-dining-query/handler_test.go
package parsediningquery

import (
	"context"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dining-recommender/internal/common/camunda"
	apperrors "dining-recommender/internal/common/errors"
	"dining-recommender/internal/common/logger"
	"dining-recommender/internal/common/validation"
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

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), nil, &testLogger{t: t})
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name             string
		input            Input
		wantCity         string
		wantNeighborhood string
		wantVibe         []string
		wantBestFor      []string
		wantLocation     string
	}{
		{
			name:             "neighborhood implies city",
			input:            Input{Query: "cozy date night in the West Village"},
			wantCity:         "NYC",
			wantNeighborhood: "west village",
			wantVibe:         []string{"romantic", "cozy"},
			wantBestFor:      []string{"date"},
			wantLocation:     "west village, NYC",
		},
		{
			name:         "explicit city overrides text",
			input:        Input{Query: "pizza with friends in nyc", City: "milan"},
			wantCity:     "Milan",
			wantVibe:     []string{},
			wantBestFor:  []string{"friends"},
			wantLocation: "Milan",
		},
		{
			name:         "no location",
			input:        Input{Query: "somewhere quiet for a solo lunch"},
			wantVibe:     []string{},
			wantBestFor:  []string{"solo", "quick_bite"},
			wantLocation: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := newTestHandler(t).Execute(context.Background(), &tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.wantCity, output.ParsedQuery.City)
			assert.Equal(t, tt.wantNeighborhood, output.ParsedQuery.Neighborhood)
			assert.Equal(t, tt.wantVibe, output.ParsedQuery.VibeKeywords)
			assert.Equal(t, tt.wantBestFor, output.ParsedQuery.BestForKeywords)
			assert.Equal(t, tt.wantLocation, output.LocationText)
		})
	}
}

func TestHandler_Execute_EmptyQuery(t *testing.T) {
	_, err := newTestHandler(t).Execute(context.Background(), &Input{Query: "   "})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidQuery))
}

// ==========================
// Variable decoding
// ==========================

func TestDecodeVariables_Schema(t *testing.T) {
	validator := validation.NewSchemaValidator()
	require.NoError(t, validator.Register(TaskType, map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"query"},
		"properties": map[string]interface{}{
			"query": map[string]interface{}{"type": "string"},
			"city":  map[string]interface{}{"type": "string"},
		},
	}))

	tests := []struct {
		name      string
		variables string
		wantErr   bool
		wantQuery string
	}{
		{name: "valid", variables: `{"query":"ramen in soho","city":"NYC"}`, wantQuery: "ramen in soho"},
		{name: "missing query", variables: `{"city":"NYC"}`, wantErr: true},
		{name: "wrong type", variables: `{"query":42}`, wantErr: true},
		{name: "not json", variables: `{`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 1, Type: TaskType, Variables: tt.variables}}

			var input Input
			err := camunda.DecodeVariables(job, TaskType, validator, &input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantQuery, input.Query)
		})
	}
}
