package database

import (
	"context"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"

	"dining-recommender/internal/common/config"
	apperrors "dining-recommender/internal/common/errors"
)

// ElasticsearchClient serves the pre-joined restaurant index.
type ElasticsearchClient struct {
	Client *elasticsearch.Client
}

func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &ElasticsearchClient{Client: es}, nil
}

func (c *ElasticsearchClient) Ping(ctx context.Context) error {
	return verify(ctx, "elasticsearch", func(ctx context.Context) error {
		res, err := c.Client.Ping(c.Client.Ping.WithContext(ctx))
		if err != nil {
			return err
		}
		defer res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("status %s", res.Status())
		}
		return nil
	})
}

// EnsureIndex fails with INDEX_NOT_FOUND when index does not exist.
func (c *ElasticsearchClient) EnsureIndex(ctx context.Context, index string) error {
	res, err := c.Client.Indices.Exists([]string{index}, c.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return apperrors.NewSearchQueryFailedError(index, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return apperrors.NewIndexNotFoundError(index)
	case res.IsError():
		return apperrors.NewSearchQueryFailedError(index, fmt.Errorf("status %s", res.Status()))
	}
	return nil
}
