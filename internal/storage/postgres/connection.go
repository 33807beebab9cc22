package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/landmark-estates/landmark-web/config"
	_ "github.com/lib/pq"
)

func NewConnection(ctx context.Context, cfg *config.DatabaseConfig) (*sql.DB, error) {
	dsn := DSN(cfg)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}

const sessionSchema = `
	CREATE TABLE IF NOT EXISTS web_sessions (
		id          TEXT PRIMARY KEY,
		credentials JSONB NOT NULL,
		expires_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS web_sessions_expires_at_idx ON web_sessions (expires_at);
`

// EnsureSessionSchema creates the session table when it is missing.
func EnsureSessionSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, sessionSchema); err != nil {
		return fmt.Errorf("failed to create session schema: %w", err)
	}
	return nil
}
