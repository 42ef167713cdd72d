package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"dining-recommender/internal/models"
)

var (
	ErrIndexNotFound     = errors.New("INDEX_NOT_FOUND")
	ErrSearchQueryFailed = errors.New("SEARCH_QUERY_FAILED")
)

const defaultPageSize = 500

// esDocument is one already-joined restaurant in the search index.
type esDocument struct {
	RestaurantID      string         `json:"restaurant_id"`
	Name              string         `json:"name"`
	City              string         `json:"city"`
	Neighborhood      string         `json:"neighborhood"`
	Status            string         `json:"status"`
	YourNote          string         `json:"your_note"`
	GoogleMapsURL     string         `json:"google_maps_url"`
	WouldRecommend    string         `json:"would_recommend"`
	Confidence        string         `json:"confidence"`
	BestFor           models.TagSet  `json:"best_for"`
	Vibe              models.TagSet  `json:"vibe"`
	FoodStrength      models.TagSet  `json:"food_strength"`
	Dealbreakers      models.TagSet  `json:"dealbreakers"`
	PublicRating      optionalNumber `json:"public_rating"`
	PublicReviewCount optionalNumber `json:"public_review_count"`
	PriceTier         optionalNumber `json:"price_tier"`
	PublicVibe        string         `json:"public_vibe"`
	PublicVibeSource  string         `json:"public_vibe_source"`
	PublicVibeModel   string         `json:"public_vibe_model"`
	Latitude          optionalNumber `json:"latitude"`
	Longitude         optionalNumber `json:"longitude"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source esDocument    `json:"_source"`
			Sort   []interface{} `json:"sort"`
		} `json:"hits"`
	} `json:"hits"`
}

// ElasticsearchProvider pages through every document of one index with search_after.
type ElasticsearchProvider struct {
	client   *elasticsearch.Client
	index    string
	pageSize int
}

func NewElasticsearchProvider(client *elasticsearch.Client, index string, pageSize int) *ElasticsearchProvider {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &ElasticsearchProvider{client: client, index: index, pageSize: pageSize}
}

func (p *ElasticsearchProvider) Load(ctx context.Context) ([]models.RestaurantRecord, error) {
	var (
		docs   []esDocument
		cursor []interface{}
	)
	for {
		page, next, err := p.searchPage(ctx, cursor)
		if err != nil {
			return nil, err
		}
		docs = append(docs, page...)
		if len(page) < p.pageSize || next == nil {
			break
		}
		cursor = next
	}

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.RestaurantID
	}
	if problems := checkIDs(p.index, ids); len(problems) > 0 {
		return nil, &IntegrityError{Problems: problems}
	}

	records := make([]models.RestaurantRecord, 0, len(docs))
	for _, d := range docs {
		records = append(records, d.toRecord())
	}
	return records, nil
}

func (p *ElasticsearchProvider) searchPage(ctx context.Context, after []interface{}) ([]esDocument, []interface{}, error) {
	query := map[string]interface{}{
		"size":  p.pageSize,
		"query": map[string]interface{}{"match_all": map[string]interface{}{}},
		"sort":  []interface{}{map[string]interface{}{"restaurant_id": "asc"}},
	}
	if after != nil {
		query["search_after"] = after
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, nil, fmt.Errorf("%w: encode query: %v", ErrSearchQueryFailed, err)
	}

	req := esapi.SearchRequest{
		Index: []string{p.index},
		Body:  &buf,
	}
	res, err := req.Do(ctx, p.client)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, nil, fmt.Errorf("%w: %s", ErrIndexNotFound, p.index)
	}
	if res.IsError() {
		return nil, nil, fmt.Errorf("%w: %s", ErrSearchQueryFailed, res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, nil, fmt.Errorf("%w: decode response: %v", ErrSearchQueryFailed, err)
	}

	docs := make([]esDocument, len(r.Hits.Hits))
	var next []interface{}
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
		next = hit.Sort
	}
	return docs, next, nil
}

func (d esDocument) toRecord() models.RestaurantRecord {
	return models.RestaurantRecord{
		ID:                d.RestaurantID,
		Name:              d.Name,
		City:              d.City,
		Neighborhood:      d.Neighborhood,
		Status:            d.Status,
		PersonalNote:      d.YourNote,
		URL:               d.GoogleMapsURL,
		WouldRecommend:    d.WouldRecommend,
		Confidence:        d.Confidence,
		Vibe:              nonNil(d.Vibe),
		BestFor:           nonNil(d.BestFor),
		FoodStrength:      nonNil(d.FoodStrength),
		Dealbreakers:      nonNil(d.Dealbreakers),
		PublicRating:      d.PublicRating.Float(),
		PublicReviewCount: d.PublicReviewCount.Int(),
		PriceTier:         d.PriceTier.Int(),
		PublicVibe:        d.PublicVibe,
		PublicVibeSource:  d.PublicVibeSource,
		PublicVibeModel:   d.PublicVibeModel,
		Latitude:          d.Latitude.Float(),
		Longitude:         d.Longitude.Float(),
	}
}
