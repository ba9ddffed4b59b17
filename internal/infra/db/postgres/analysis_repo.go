package postgres

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"

	domain "github.com/bryanwahyu/satyacheck/internal/domain/analysis"
)

const defaultLimit = 20

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var recordColumns = []string{
	"id", "content_hash", "content", "content_type", "language",
	"verdict", "explanation", "analysis_type", "created_at",
}

type AnalysisRepository struct {
	db *sql.DB
}

var _ domain.Repository = (*AnalysisRepository)(nil)

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save inserts or updates an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Record) error {
	const q = `
INSERT INTO content_analyses
  (id, content_hash, content, content_type, language, verdict, explanation, analysis_type, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
  verdict=EXCLUDED.verdict,
  explanation=EXCLUDED.explanation,
  analysis_type=EXCLUDED.analysis_type;
`
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, q,
		string(a.ID), a.ContentHash, a.Content, string(a.ContentType), stringOrDash(a.Language),
		string(a.Verdict), a.Explanation, stringOrDash(a.AnalysisType), createdAt)
	return err
}

func (r *AnalysisRepository) FindByContentHash(ctx context.Context, hash string, limit int) ([]*domain.Record, error) {
	return r.find(ctx, domain.RecordFilter{Limit: limit}, sq.Eq{"content_hash": hash})
}

func (r *AnalysisRepository) FindRecent(ctx context.Context, f domain.RecordFilter) ([]*domain.Record, error) {
	return r.find(ctx, f)
}

func (r *AnalysisRepository) find(ctx context.Context, f domain.RecordFilter, extra ...sq.Sqlizer) ([]*domain.Record, error) {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	q := psql.Select(recordColumns...).
		From("content_analyses").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(f.Limit))
	for _, w := range extra {
		q = q.Where(w)
	}
	if f.Verdict != "" {
		q = q.Where(sq.Eq{"verdict": string(f.Verdict)})
	}
	if f.Language != "" {
		q = q.Where(sq.Eq{"language": f.Language})
	}
	if !f.Since.IsZero() {
		q = q.Where(sq.GtOrEq{"created_at": f.Since})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		var (
			a                               domain.Record
			id, ctype, lang, verdict, atype string
		)
		if err := rows.Scan(&id, &a.ContentHash, &a.Content, &ctype, &lang, &verdict, &a.Explanation, &atype, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.ID = domain.RecordID(id)
		a.ContentType = domain.ContentType(ctype)
		a.Language = dashToEmpty(lang)
		a.Verdict = domain.Verdict(verdict)
		a.AnalysisType = dashToEmpty(atype)
		out = append(out, &a)
	}
	return out, rows.Err()
}
