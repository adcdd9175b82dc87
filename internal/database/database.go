// Package database provides PostgreSQL connection management using pgx.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/VBRVijay/Event-Management-Web-Application/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool creates and validates a pgxpool connection pool.
// It retries up to 5 times to accommodate containers starting up.
func NewPool(ctx context.Context, cfg config.Database) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	// Sensible pool defaults for a small service.
	poolCfg.MaxConns = 20
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= 5; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			pingErr := pool.Ping(ctx)
			if pingErr == nil {
				return pool, nil
			}
			pool.Close()
			err = pingErr
		}
		if attempt < 5 {
			time.Sleep(2 * time.Second)
		}
	}
	return nil, fmt.Errorf("connect to postgres: %w", err)
}

// Migrate creates the schema if it does not exist yet. The ON DELETE CASCADE
// foreign key is load-bearing: it is what makes event deletion take its
// attendees with it atomically.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS events (
		id            TEXT PRIMARY KEY,
		title         TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		date          TIMESTAMPTZ NOT NULL,
		location      TEXT NOT NULL DEFAULT '',
		capacity      INT NOT NULL CHECK (capacity >= 0),
		tickets_sold  INT NOT NULL DEFAULT 0 CHECK (tickets_sold >= 0),
		created_at    TIMESTAMPTZ NOT NULL,
		CHECK (tickets_sold <= capacity)
	);

	CREATE TABLE IF NOT EXISTS attendees (
		id                TEXT PRIMARY KEY,
		event_id          TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		name              TEXT NOT NULL,
		email             TEXT NOT NULL,
		phone             TEXT NOT NULL DEFAULT '',
		registration_date TIMESTAMPTZ NOT NULL,
		UNIQUE (event_id, email)
	);

	CREATE INDEX IF NOT EXISTS idx_attendees_event_id ON attendees (event_id);
	`
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
