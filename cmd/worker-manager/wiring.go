package main

import (
	"context"
	"fmt"

	"dining-recommender/internal/common/config"
	"dining-recommender/internal/common/database"
	"dining-recommender/internal/common/logger"
	"dining-recommender/internal/dataset"
	"dining-recommender/internal/geo"
)

// stores holds whichever backing clients the configuration asks for.
type stores struct {
	postgres      *database.PostgresClient
	sqlite        *database.SQLiteClient
	elasticsearch *database.ElasticsearchClient
	redis         *database.RedisClient
}

func openStores(ctx context.Context, cfg *config.Config, log logger.Logger) (*stores, error) {
	s := &stores{}

	switch cfg.Dataset.Source {
	case config.DatasetSourcePostgres:
		pg, err := database.NewPostgres(ctx, cfg.Database.Postgres)
		if err != nil {
			return nil, err
		}
		s.postgres = pg
	case config.DatasetSourceSQLite:
		lite, err := database.NewSQLite(ctx, cfg.Database.SQLite, dataset.Schema)
		if err != nil {
			return nil, err
		}
		s.sqlite = lite
	case config.DatasetSourceElasticsearch:
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return nil, err
		}
		if err := es.Ping(ctx); err != nil {
			return nil, err
		}
		if err := es.EnsureIndex(ctx, cfg.Dataset.Elasticsearch.Index); err != nil {
			return nil, err
		}
		s.elasticsearch = es
	}

	if cfg.Geocoding.Enabled && cfg.Database.Redis.Address != "" {
		rdb := database.NewRedis(cfg.Database.Redis)
		if err := rdb.Ping(ctx); err != nil {
			// the cache is optional; geocoding still works without it
			log.Warn("redis unavailable, geocode cache disabled", map[string]interface{}{
				"address": cfg.Database.Redis.Address,
				"error":   err.Error(),
			})
			rdb.Close()
		} else {
			s.redis = rdb
		}
	}

	return s, nil
}

func (s *stores) Close() {
	if s.postgres != nil {
		s.postgres.Close()
	}
	if s.sqlite != nil {
		s.sqlite.Close()
	}
	if s.redis != nil {
		s.redis.Close()
	}
}

func newProvider(cfg *config.Config, s *stores) (dataset.Provider, error) {
	switch cfg.Dataset.Source {
	case config.DatasetSourceCSV:
		return dataset.NewCSVProvider(dataset.CSVPaths{
			Master:     cfg.Dataset.CSV.MasterPath,
			Experience: cfg.Dataset.CSV.ExperiencePath,
			Public:     cfg.Dataset.CSV.PublicPath,
		}), nil
	case config.DatasetSourcePostgres:
		return dataset.NewSQLProvider(s.postgres.DB), nil
	case config.DatasetSourceSQLite:
		return dataset.NewSQLProvider(s.sqlite.DB), nil
	case config.DatasetSourceElasticsearch:
		return dataset.NewElasticsearchProvider(s.elasticsearch.Client, cfg.Dataset.Elasticsearch.Index, cfg.Dataset.Elasticsearch.PageSize), nil
	}
	return nil, fmt.Errorf("unknown dataset source %q", cfg.Dataset.Source)
}

// newResolver builds Google geocoding, cached in redis when available.
// It returns nil when geocoding is disabled.
func newResolver(cfg *config.Config, s *stores, log logger.Logger) geo.Resolver {
	if !cfg.Geocoding.Enabled {
		return nil
	}

	var resolver geo.Resolver = geo.NewGoogleResolver(&geo.GoogleConfig{
		BaseURL:       cfg.Geocoding.BaseURL,
		APIKey:        cfg.Geocoding.APIKey,
		Timeout:       config.GetDuration(cfg.Geocoding.Timeout),
		RatePerSecond: cfg.Geocoding.RatePerSecond,
		Burst:         cfg.Geocoding.Burst,
	}, log)

	if s.redis != nil {
		resolver = geo.NewCachedResolver(resolver, s.redis.Client, config.GetDuration(cfg.Geocoding.CacheTTL), log)
	}
	return resolver
}
