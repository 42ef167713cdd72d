package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: dining-recommender
dataset:
  source: csv
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, DatasetSourceCSV, cfg.Dataset.Source)
	assert.Equal(t, "data/restaurants_master.csv", cfg.Dataset.CSV.MasterPath)
	assert.Equal(t, 1, cfg.Dataset.LoadRetries)
	assert.Equal(t, 6, cfg.Recommend.DefaultTopN)
	assert.Equal(t, 6, cfg.Recommend.MaxTopN)
	assert.Equal(t, DefaultGeocodeURL, cfg.Geocoding.BaseURL)
	assert.Equal(t, 5*time.Second, GetDuration(cfg.Geocoding.Timeout))
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Contains(t, cfg.Server.AllowedOrigins, "http://localhost:5173")
	assert.Equal(t, "dining-recommender", cfg.Observability.ServiceName)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_EnvExpansionAndOverrides(t *testing.T) {
	t.Setenv("TEST_PG_HOST", "db.internal")
	t.Setenv("DB_USER", "recommender")
	t.Setenv("GOOGLE_MAPS_API_KEY", "maps-key")

	path := writeConfig(t, `
dataset:
  source: postgres
database:
  postgres:
    host: ${TEST_PG_HOST}
    database: dining
workers:
  recommend-restaurants:
    enabled: true
camunda:
  broker_address: localhost:26500
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
	assert.Equal(t, "recommender", cfg.Database.Postgres.User)
	assert.Equal(t, "maps-key", cfg.Geocoding.APIKey)
	assert.Contains(t, cfg.Database.Postgres.GetDSN(), "host=db.internal port=5432")

	worker := GetWorkerConfig(cfg, "recommend-restaurants")
	assert.True(t, worker.Enabled)
	assert.Equal(t, 5, worker.MaxJobsActive)
	assert.Equal(t, 30000, worker.Timeout)
	assert.True(t, IsWorkerEnabled(cfg, "recommend-restaurants"))
	assert.False(t, IsWorkerEnabled(cfg, "verify-dataset"))
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown source",
			yaml:    "dataset:\n  source: mongo\n",
			wantErr: "dataset.source",
		},
		{
			name:    "sqlite without path",
			yaml:    "dataset:\n  source: sqlite\n",
			wantErr: "database.sqlite.path",
		},
		{
			name:    "elasticsearch without addresses",
			yaml:    "dataset:\n  source: elasticsearch\n",
			wantErr: "database.elasticsearch.addresses",
		},
		{
			name:    "workers without broker",
			yaml:    "workers:\n  verify-dataset:\n    enabled: true\n",
			wantErr: "camunda.broker_address",
		},
		{
			name:    "default top n above max",
			yaml:    "recommend:\n  default_top_n: 8\n  max_top_n: 6\n",
			wantErr: "recommend.default_top_n",
		},
		{
			name:    "sns without topic",
			yaml:    "alerts:\n  sns:\n    enabled: true\n",
			wantErr: "alerts.sns.topic_arn",
		},
		{
			name:    "tracing without endpoint",
			yaml:    "observability:\n  tracing:\n    enabled: true\n",
			wantErr: "jaeger_endpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ALERTS_SNS_TOPIC_ARN", "")
			_, err := LoadFromFile(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_NegativeRetriesDisable(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, "dataset:\n  load_retries: -1\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Dataset.LoadRetries)
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
