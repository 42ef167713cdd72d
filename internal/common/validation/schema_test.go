package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func querySchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"query"},
		"properties": map[string]interface{}{
			"query": map[string]interface{}{"type": "string", "minLength": 1},
			"topN":  map[string]interface{}{"type": "integer", "minimum": 1},
		},
	}
}

func TestSchemaValidator_ValidateInput(t *testing.T) {
	v := NewSchemaValidator()
	require.NoError(t, v.Register("parse-dining-query", querySchema()))

	tests := []struct {
		name      string
		taskType  string
		input     map[string]interface{}
		wantValid bool
		wantInSum string
	}{
		{
			name:      "valid input",
			taskType:  "parse-dining-query",
			input:     map[string]interface{}{"query": "date night in soho", "topN": 3},
			wantValid: true,
		},
		{
			name:      "missing query",
			taskType:  "parse-dining-query",
			input:     map[string]interface{}{"topN": 3},
			wantValid: false,
			wantInSum: "query",
		},
		{
			name:      "wrong type",
			taskType:  "parse-dining-query",
			input:     map[string]interface{}{"query": "pizza", "topN": "three"},
			wantValid: false,
			wantInSum: "topN",
		},
		{
			name:      "unregistered task type",
			taskType:  "unknown",
			input:     map[string]interface{}{},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := v.ValidateInput(tt.taskType, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantInSum != "" {
				require.NotEmpty(t, result.Errors)
				assert.Contains(t, result.Summary(), tt.wantInSum)
			}
		})
	}
}

func TestSchemaValidator_RegisterInvalidSchema(t *testing.T) {
	v := NewSchemaValidator()
	err := v.Register("broken", map[string]interface{}{"type": "banana"})
	assert.Error(t, err)
}

func TestSchemaValidator_EmptySchemaSkipped(t *testing.T) {
	v := NewSchemaValidator()
	require.NoError(t, v.Register("anything", nil))

	result, err := v.ValidateInput("anything", map[string]interface{}{"x": 1})
	require.NoError(t, err)
	assert.True(t, result.Valid)
}
