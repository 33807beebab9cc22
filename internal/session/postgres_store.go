package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PostgresStore keeps sessions in the web_sessions table:
//
//	CREATE TABLE web_sessions (
//	    id          TEXT PRIMARY KEY,
//	    credentials JSONB NOT NULL,
//	    expires_at  TIMESTAMPTZ NOT NULL,
//	    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type PostgresStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewPostgresStore creates a store whose rows expire ttl after their last
// save.
func NewPostgresStore(db *sql.DB, ttl time.Duration) *PostgresStore {
	return &PostgresStore{db: db, ttl: ttl, now: time.Now}
}

func (p *PostgresStore) Load(ctx context.Context, id string) (*Credentials, error) {
	query := `
		SELECT credentials
		FROM web_sessions
		WHERE id = $1 AND expires_at > $2
	`

	var raw []byte
	err := p.db.QueryRowContext(ctx, query, id, p.now().UTC()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &creds, nil
}

func (p *PostgresStore) Save(ctx context.Context, id string, creds *Credentials) error {
	query := `
		INSERT INTO web_sessions (id, credentials, expires_at, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE
		SET credentials = EXCLUDED.credentials,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = NOW()
	`

	raw, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if _, err := p.db.ExecContext(ctx, query, id, raw, p.now().UTC().Add(p.ttl)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM web_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PurgeExpired removes rows past their expiry and reports how many went.
func (p *PostgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	result, err := p.db.ExecContext(ctx, `DELETE FROM web_sessions WHERE expires_at <= $1`, p.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return result.RowsAffected()
}
