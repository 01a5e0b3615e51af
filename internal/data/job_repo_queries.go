package data

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/giftwell/lookalike-api/internal/data/pgxutil"
	"github.com/giftwell/lookalike-api/internal/domain/model"
)

// jobFilterQueryBuilder accumulates optional equality filters with positional args.
type jobFilterQueryBuilder struct {
	query  string
	args   []any
	argIdx int
}

func (b *jobFilterQueryBuilder) addFilter(column string, value any) {
	b.query += fmt.Sprintf(" AND %s = $%d", column, b.argIdx)
	b.args = append(b.args, value)
	b.argIdx++
}

func buildJobListQuery(opts *model.JobListOptions) (string, []any) {
	builder := &jobFilterQueryBuilder{
		query: `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE 1=1`,
		args:   []any{},
		argIdx: 1,
	}

	if opts.Type != nil && *opts.Type != "" {
		builder.addFilter("type", *opts.Type)
	}
	if opts.Status != nil && *opts.Status != "" {
		builder.addFilter("status", *opts.Status)
	}
	if opts.ListID != nil && *opts.ListID != "" {
		builder.addFilter("list_id", *opts.ListID)
	}

	builder.query += `
		ORDER BY created_at DESC, id DESC`

	return builder.query, builder.args
}

// List returns jobs matching the given filters, newest first.
func (r *JobRepo) List(ctx context.Context, opts *model.JobListOptions) ([]*model.Job, error) {
	if opts == nil {
		opts = &model.JobListOptions{}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50 // Default limit
	}
	if limit > 1000 {
		limit = 1000 // Max limit
	}
	offset := max(opts.Offset, 0)

	query, args := buildJobListQuery(opts)
	query += fmt.Sprintf(`
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var result []*model.Job
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("query jobs: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			job, scanErr := scanJobFromRow(rows)
			if scanErr != nil {
				return fmt.Errorf("scan job: %w", scanErr)
			}
			result = append(result, job)
		}
		return rows.Err()
	}); err != nil {
		return nil, err
	}

	return result, nil
}
