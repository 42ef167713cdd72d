package dataset

import (
	"context"
	"database/sql"
	"fmt"

	apperrors "dining-recommender/internal/common/errors"
	"dining-recommender/internal/models"
)

const (
	masterQuery = `SELECT restaurant_id, name, city, neighborhood, status, your_note, google_maps_url,
       price_tier, public_rating, public_review_count, latitude, longitude
FROM restaurants_master
ORDER BY restaurant_id`

	experienceQuery = `SELECT restaurant_id, would_recommend, confidence, best_for, vibe, food_strength, dealbreakers
FROM experience_signals
ORDER BY restaurant_id`

	publicQuery = `SELECT restaurant_id, public_rating, public_review_count, price_tier,
       public_vibe, public_vibe_source, public_vibe_model
FROM public_signals
ORDER BY restaurant_id`
)

// SQLProvider reads the snapshot tables from Postgres or SQLite.
// Tag columns hold pipe-delimited strings.
type SQLProvider struct {
	db *sql.DB
}

func NewSQLProvider(db *sql.DB) *SQLProvider {
	return &SQLProvider{db: db}
}

func (p *SQLProvider) Load(ctx context.Context) ([]models.RestaurantRecord, error) {
	// one read-only transaction so the three reads see the same snapshot
	tx, err := p.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	master, err := queryRows(ctx, tx, masterQuery, scanMasterRow)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("restaurants_master", err)
	}
	experience, err := queryRows(ctx, tx, experienceQuery, scanExperienceRow)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("experience_signals", err)
	}
	public, err := queryRows(ctx, tx, publicQuery, scanPublicRow)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("public_signals", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit snapshot: %w", err)
	}

	return Join(master, experience, public)
}

func queryRows[T any](ctx context.Context, tx *sql.Tx, query string, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		row, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func scanMasterRow(rows *sql.Rows) (MasterRow, error) {
	// numeric columns are scanned as text; SQLite keeps whatever was inserted
	var (
		id, name, city, neighborhood, status, note, url sql.NullString
		priceTier, reviewCount, rating, lat, lon        sql.NullString
	)
	if err := rows.Scan(&id, &name, &city, &neighborhood, &status, &note, &url,
		&priceTier, &rating, &reviewCount, &lat, &lon); err != nil {
		return MasterRow{}, err
	}
	return MasterRow{
		ID:                id.String,
		Name:              name.String,
		City:              city.String,
		Neighborhood:      neighborhood.String,
		Status:            status.String,
		Note:              note.String,
		URL:               url.String,
		PriceTier:         optionalInt(priceTier.String),
		PublicRating:      optionalFloat(rating.String),
		PublicReviewCount: optionalInt(reviewCount.String),
		Latitude:          optionalFloat(lat.String),
		Longitude:         optionalFloat(lon.String),
	}, nil
}

func scanExperienceRow(rows *sql.Rows) (ExperienceRow, error) {
	var id, recommend, confidence, bestFor, vibe, food, dealbreakers sql.NullString
	if err := rows.Scan(&id, &recommend, &confidence, &bestFor, &vibe, &food, &dealbreakers); err != nil {
		return ExperienceRow{}, err
	}
	return ExperienceRow{
		ID:             id.String,
		WouldRecommend: recommend.String,
		Confidence:     confidence.String,
		BestFor:        models.ParseTagSet(bestFor.String),
		Vibe:           models.ParseTagSet(vibe.String),
		FoodStrength:   models.ParseTagSet(food.String),
		Dealbreakers:   models.ParseTagSet(dealbreakers.String),
	}, nil
}

func scanPublicRow(rows *sql.Rows) (PublicRow, error) {
	var (
		id, publicVibe, vibeSource, vibeModel sql.NullString
		rating, reviewCount, priceTier        sql.NullString
	)
	if err := rows.Scan(&id, &rating, &reviewCount, &priceTier, &publicVibe, &vibeSource, &vibeModel); err != nil {
		return PublicRow{}, err
	}
	return PublicRow{
		ID:                id.String,
		PublicRating:      optionalFloat(rating.String),
		PublicReviewCount: optionalInt(reviewCount.String),
		PriceTier:         optionalInt(priceTier.String),
		PublicVibe:        publicVibe.String,
		PublicVibeSource:  vibeSource.String,
		PublicVibeModel:   vibeModel.String,
	}, nil
}

// Schema creates the snapshot tables. It is valid for both Postgres and SQLite.
const Schema = `
CREATE TABLE IF NOT EXISTS restaurants_master (
    restaurant_id       TEXT PRIMARY KEY,
    name                TEXT NOT NULL,
    city                TEXT NOT NULL,
    neighborhood        TEXT,
    status              TEXT NOT NULL,
    your_note           TEXT,
    google_maps_url     TEXT,
    price_tier          INTEGER,
    public_rating       DOUBLE PRECISION,
    public_review_count INTEGER,
    latitude            DOUBLE PRECISION,
    longitude           DOUBLE PRECISION
);
CREATE TABLE IF NOT EXISTS experience_signals (
    restaurant_id   TEXT PRIMARY KEY,
    would_recommend TEXT,
    confidence      TEXT,
    best_for        TEXT,
    vibe            TEXT,
    food_strength   TEXT,
    dealbreakers    TEXT
);
CREATE TABLE IF NOT EXISTS public_signals (
    restaurant_id       TEXT PRIMARY KEY,
    public_rating       DOUBLE PRECISION,
    public_review_count INTEGER,
    price_tier          INTEGER,
    public_vibe         TEXT,
    public_vibe_source  TEXT,
    public_vibe_model   TEXT
);
`
