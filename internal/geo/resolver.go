// Package geo resolves free-text locations to coordinates and measures
// distances between them.
package geo

import (
	"context"
	"errors"

	"dining-recommender/internal/models"
)

var (
	ErrGeocodeTimeout = errors.New("GEOCODE_TIMEOUT")
	ErrGeocodeFailed  = errors.New("GEOCODE_FAILED")
)

// Resolver turns a location string into a coordinate. A nil coordinate with
// a nil error means the location is unknown.
type Resolver interface {
	Resolve(ctx context.Context, text string) (*models.Coordinate, error)
}

// ResolverFunc adapts a plain function to Resolver.
type ResolverFunc func(ctx context.Context, text string) (*models.Coordinate, error)

func (f ResolverFunc) Resolve(ctx context.Context, text string) (*models.Coordinate, error) {
	return f(ctx, text)
}
