package database

import (
	"context"
	"database/sql"
	"fmt"

	"dining-recommender/internal/common/config"

	_ "modernc.org/sqlite"
)

// SQLiteClient wraps an embedded SQLite database file.
type SQLiteClient struct {
	DB *sql.DB
}

// NewSQLite opens the database at cfg.Path, creating the file if needed.
// A non-empty schema is executed once after opening.
func NewSQLite(ctx context.Context, cfg config.SQLiteConfig, schema string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", cfg.Path, err)
	}
	// single writer; readers share the one connection
	db.SetMaxOpenConns(1)

	if schema != "" {
		if _, err := db.ExecContext(ctx, schema); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
		}
	}
	return &SQLiteClient{DB: db}, nil
}

func (c *SQLiteClient) Ping(ctx context.Context) error {
	return verify(ctx, "sqlite", c.DB.PingContext)
}

func (c *SQLiteClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
