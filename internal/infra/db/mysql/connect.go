package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS content_analyses (
  id            VARCHAR(64)  NOT NULL PRIMARY KEY,
  content_hash  CHAR(64)     NOT NULL,
  content       MEDIUMTEXT   NOT NULL,
  content_type  VARCHAR(16)  NOT NULL,
  language      VARCHAR(16)  NOT NULL,
  verdict       VARCHAR(32)  NOT NULL,
  explanation   TEXT         NOT NULL,
  analysis_type VARCHAR(32)  NOT NULL,
  created_at    DATETIME(3)  NOT NULL,
  INDEX idx_content_analyses_hash (content_hash, created_at),
  INDEX idx_content_analyses_created (created_at)
);
CREATE TABLE IF NOT EXISTS analysis_outcomes (
  id          BIGINT       NOT NULL AUTO_INCREMENT PRIMARY KEY,
  operation   VARCHAR(32)  NOT NULL,
  batch_id    VARCHAR(64)  NOT NULL DEFAULT '-',
  item_id     VARCHAR(128) NOT NULL DEFAULT '-',
  language    VARCHAR(16)  NOT NULL DEFAULT '-',
  verdict     VARCHAR(32)  NOT NULL DEFAULT '-',
  success     BOOLEAN      NOT NULL,
  error_kind  VARCHAR(32)  NOT NULL DEFAULT '-',
  message     TEXT         NOT NULL,
  duration_ms BIGINT       NOT NULL,
  created_at  DATETIME(3)  NOT NULL,
  INDEX idx_analysis_outcomes_batch (batch_id, created_at)
);`

// EnsureSchema creates the tables when missing. Statements run one by one
// since the driver rejects multi-statement strings by default.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range splitStatements(schema) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
