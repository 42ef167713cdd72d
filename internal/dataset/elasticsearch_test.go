package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSearch serves pages of docs sorted by restaurant_id, honoring search_after.
func fakeSearch(t *testing.T, docs []map[string]interface{}, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"type":"index_not_found_exception"},"status":404}`))
			return
		}

		var body struct {
			Size        int           `json:"size"`
			SearchAfter []interface{} `json:"search_after"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		start := 0
		if len(body.SearchAfter) == 1 {
			after := body.SearchAfter[0].(string)
			for start < len(docs) && docs[start]["restaurant_id"].(string) <= after {
				start++
			}
		}
		end := start + body.Size
		if end > len(docs) {
			end = len(docs)
		}

		hits := make([]map[string]interface{}, 0)
		for _, d := range docs[start:end] {
			hits = append(hits, map[string]interface{}{
				"_source": d,
				"sort":    []interface{}{d["restaurant_id"]},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"hits": map[string]interface{}{"hits": hits},
		})
	}))
}

func newESClient(t *testing.T, url string) *elasticsearch.Client {
	t.Helper()
	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{url}})
	require.NoError(t, err)
	return client
}

func TestElasticsearchProvider_Load_Pages(t *testing.T) {
	docs := []map[string]interface{}{
		{"restaurant_id": "r1", "name": "Via Carota", "city": "NYC", "status": "tried", "vibe": []string{"cozy", "romantic"}, "public_review_count": 2300.0},
		{"restaurant_id": "r2", "name": "Lilia", "city": "NYC", "status": "tried", "vibe": "buzzing|trendy", "price_tier": 3},
		{"restaurant_id": "r3", "name": "Ratanà", "city": "Milan", "status": "want_to_try"},
	}
	srv := fakeSearch(t, docs, http.StatusOK)
	defer srv.Close()

	provider := NewElasticsearchProvider(newESClient(t, srv.URL), "restaurants", 2)
	records, err := provider.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Via Carota", records[0].Name)
	assert.True(t, records[0].Vibe.Contains("romantic"))
	assert.Equal(t, 2300, *records[0].PublicReviewCount)
	assert.Equal(t, "buzzing|trendy", records[1].Vibe.String())
	assert.Equal(t, 3, *records[1].PriceTier)
	assert.Equal(t, "Milan", records[2].City)
	assert.NotNil(t, records[2].BestFor)
}

func TestElasticsearchProvider_Load_DuplicateIDs(t *testing.T) {
	docs := []map[string]interface{}{
		{"restaurant_id": "r1", "name": "A"},
		{"restaurant_id": "r1", "name": "B"},
	}
	srv := fakeSearch(t, docs, http.StatusOK)
	defer srv.Close()

	_, err := NewElasticsearchProvider(newESClient(t, srv.URL), "restaurants", 10).Load(context.Background())
	var integrity *IntegrityError
	require.True(t, errors.As(err, &integrity))
	assert.Contains(t, integrity.Problems, "restaurants has duplicate restaurant_id r1")
}

func TestElasticsearchProvider_Load_IndexNotFound(t *testing.T) {
	srv := fakeSearch(t, nil, http.StatusNotFound)
	defer srv.Close()

	_, err := NewElasticsearchProvider(newESClient(t, srv.URL), "missing", 10).Load(context.Background())
	assert.ErrorIs(t, err, ErrIndexNotFound)
}

func TestElasticsearchProvider_Load_MalformedNumbers(t *testing.T) {
	docs := []map[string]interface{}{
		{"restaurant_id": "r1", "name": "Lilia", "city": "NYC", "status": "tried",
			"public_rating": "", "public_review_count": "1,234", "price_tier": "$$$",
			"latitude": map[string]interface{}{"lat": 40.7}, "longitude": true},
		{"restaurant_id": "r2", "name": "Via Carota", "city": "NYC", "status": "tried",
			"public_rating": "4.6", "public_review_count": 1e30, "price_tier": 2,
			"latitude": 40.7336, "longitude": -74.0036},
	}
	srv := fakeSearch(t, docs, http.StatusOK)
	defer srv.Close()

	records, err := NewElasticsearchProvider(newESClient(t, srv.URL), "restaurants", 10).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	lilia := records[0]
	assert.Nil(t, lilia.PublicRating)
	require.NotNil(t, lilia.PublicReviewCount)
	assert.Equal(t, 1234, *lilia.PublicReviewCount)
	assert.Nil(t, lilia.PriceTier)
	assert.Nil(t, lilia.Coordinate())

	carota := records[1]
	assert.Equal(t, 4.6, *carota.PublicRating)
	assert.Nil(t, carota.PublicReviewCount)
	assert.Equal(t, 2, *carota.PriceTier)
	require.NotNil(t, carota.Coordinate())
}
