// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"credit-score-workers/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres creates a new PostgreSQL client
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// GetDB returns the underlying *sql.DB
func (c *PostgresClient) GetDB() *sql.DB {
	return c.DB
}

// schemaStatements create the assessment tables when they are missing.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS credit_assessments (
		id               UUID PRIMARY KEY,
		applicant_id     TEXT NOT NULL,
		applicant_name   TEXT NOT NULL DEFAULT '',
		email            TEXT NOT NULL DEFAULT '',
		credit_score     INTEGER NOT NULL CHECK (credit_score BETWEEN 300 AND 900),
		risk_level       TEXT NOT NULL,
		breakdown        JSONB NOT NULL,
		advice           JSONB NOT NULL DEFAULT '[]',
		recommendations  JSONB NOT NULL DEFAULT '[]',
		profile_hash     TEXT NOT NULL,
		status           TEXT NOT NULL DEFAULT 'pending',
		assessment_date  DATE NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS credit_assessments_daily_uniq
		ON credit_assessments (applicant_id, profile_hash, assessment_date)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id             BIGSERIAL PRIMARY KEY,
		event_type     TEXT NOT NULL,
		resource_type  TEXT NOT NULL,
		resource_id    TEXT NOT NULL,
		details        JSONB,
		created_at     TIMESTAMPTZ NOT NULL
	)`,
}

// EnsureSchema creates the assessment and audit tables if they do not exist.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
