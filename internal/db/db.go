package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Connect opens the Postgres pool and checks it is reachable.
func Connect(ctx context.Context, connString string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := Ping(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func Ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

// schema is applied in order; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS todos (
		id           uuid PRIMARY KEY,
		user_id      text NOT NULL,
		title        text NOT NULL CHECK (char_length(title) BETWEEN 1 AND 50),
		description  text NOT NULL DEFAULT '',
		created_at   timestamptz NOT NULL DEFAULT now(),
		updated_at   timestamptz NOT NULL DEFAULT now(),
		due_date     date,
		due_time     text CHECK (due_time ~ '^([01][0-9]|2[0-3]):[0-5][0-9]$'),
		priority     text NOT NULL DEFAULT 'medium' CHECK (priority IN ('high', 'medium', 'low')),
		category     text[] NOT NULL DEFAULT '{}',
		completed    boolean NOT NULL DEFAULT false,
		completed_at timestamptz
	)`,
	`CREATE INDEX IF NOT EXISTS todos_user_created_idx ON todos (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS analytics_events (
		id               bigserial PRIMARY KEY,
		event_name       text NOT NULL,
		event_time       timestamptz NOT NULL,
		user_id          text NOT NULL,
		session_id       text,
		platform         text NOT NULL DEFAULT 'unknown',
		app_version      text NOT NULL DEFAULT '',
		device_locale    text,
		ip_country       text,
		source_event_key text UNIQUE,
		properties       jsonb NOT NULL DEFAULT '{}'
	)`,
	`CREATE INDEX IF NOT EXISTS analytics_events_user_time_idx ON analytics_events (user_id, event_time)`,
}

// Migrate applies the schema in one transaction.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}

	log.Info().Int("statements", len(schema)).Msg("schema up to date")
	return nil
}
