package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS content_analyses (
  id            TEXT        PRIMARY KEY,
  content_hash  CHAR(64)    NOT NULL,
  content       TEXT        NOT NULL,
  content_type  TEXT        NOT NULL,
  language      TEXT        NOT NULL,
  verdict       TEXT        NOT NULL,
  explanation   TEXT        NOT NULL,
  analysis_type TEXT        NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_content_analyses_hash ON content_analyses (content_hash, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_content_analyses_created ON content_analyses (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS analysis_outcomes (
  id          BIGSERIAL   PRIMARY KEY,
  operation   TEXT        NOT NULL,
  batch_id    TEXT        NOT NULL DEFAULT '-',
  item_id     TEXT        NOT NULL DEFAULT '-',
  language    TEXT        NOT NULL DEFAULT '-',
  verdict     TEXT        NOT NULL DEFAULT '-',
  success     BOOLEAN     NOT NULL,
  error_kind  TEXT        NOT NULL DEFAULT '-',
  message     TEXT        NOT NULL,
  duration_ms BIGINT      NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_analysis_outcomes_batch ON analysis_outcomes (batch_id, created_at)`,
}

// EnsureSchema creates the tables when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// stringOrDash returns "-" when the input is empty/whitespace
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func dashToEmpty(s string) string {
	if s == "-" {
		return ""
	}
	return s
}
