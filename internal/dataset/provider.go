// Package dataset loads the curated restaurant snapshot from its backing store
// and joins the master, experience and public tables into RestaurantRecords.
package dataset

import (
	"context"
	"strings"

	"dining-recommender/internal/models"
)

// Provider returns a consistent snapshot of joined records.
// Implementations must return *IntegrityError when the tables disagree.
type Provider interface {
	Load(ctx context.Context) ([]models.RestaurantRecord, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) ([]models.RestaurantRecord, error)

func (f ProviderFunc) Load(ctx context.Context) ([]models.RestaurantRecord, error) {
	return f(ctx)
}

// IntegrityError lists every problem found while joining a snapshot.
type IntegrityError struct {
	Problems []string
}

func (e *IntegrityError) Error() string {
	return "dataset integrity: " + strings.Join(e.Problems, "; ")
}

// Source names accepted by the dataset.source setting.
const (
	SourceCSV           = "csv"
	SourcePostgres      = "postgres"
	SourceSQLite        = "sqlite"
	SourceElasticsearch = "elasticsearch"
)
