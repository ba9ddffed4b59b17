package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/bryanwahyu/satyacheck/internal/domain/analysis"
)

type OutcomeRepository struct {
	db *sql.DB
}

var _ domain.OutcomeRepository = (*OutcomeRepository)(nil)

func NewOutcomeRepository(db *sql.DB) *OutcomeRepository { return &OutcomeRepository{db: db} }

// Save inserts the outcome and stores the generated id on o.
func (r *OutcomeRepository) Save(ctx context.Context, o *domain.Outcome) error {
	const q = `
INSERT INTO analysis_outcomes
  (operation, batch_id, item_id, language, verdict, success, error_kind, message, duration_ms, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING id;
`
	msg := o.Message
	if strings.TrimSpace(msg) == "" {
		msg = "-"
	}
	created := o.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return r.db.QueryRowContext(ctx, q,
		stringOrDash(o.Operation), stringOrDash(o.BatchID), stringOrDash(o.ItemID),
		stringOrDash(o.Language), stringOrDash(string(o.Verdict)), o.Success,
		stringOrDash(o.ErrorKind), msg, o.Duration.Milliseconds(), created,
	).Scan(&o.ID)
}

func (r *OutcomeRepository) ListByBatch(ctx context.Context, batchID string, limit int) ([]*domain.Outcome, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	const q = `
SELECT id, operation, batch_id, item_id, language, verdict, success, error_kind, message, duration_ms, created_at
FROM analysis_outcomes
WHERE batch_id = $1
ORDER BY created_at ASC, id ASC
LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, batchID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Outcome
	for rows.Next() {
		var (
			o                         domain.Outcome
			item, lang, verdict, kind string
			msg                       string
			durMS                     int64
		)
		if err := rows.Scan(&o.ID, &o.Operation, &o.BatchID, &item, &lang, &verdict, &o.Success, &kind, &msg, &durMS, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.ItemID = dashToEmpty(item)
		o.Language = dashToEmpty(lang)
		o.Verdict = domain.Verdict(dashToEmpty(verdict))
		o.ErrorKind = dashToEmpty(kind)
		o.Message = dashToEmpty(msg)
		o.Duration = time.Duration(durMS) * time.Millisecond
		out = append(out, &o)
	}
	return out, rows.Err()
}
