package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/giftwell/lookalike-api/internal/core"
	"github.com/giftwell/lookalike-api/internal/data/pgxutil"
	"github.com/giftwell/lookalike-api/internal/domain/model"
)

// ErrJobResultsNotConfigured indicates the repo was constructed without a database.
var ErrJobResultsNotConfigured = errors.New("job results repository not configured")

// JobResultRepo provides persistence for per-candidate job results.
type JobResultRepo struct {
	DB *sql.DB
}

// NewJobResultRepo constructs a JobResultRepo.
func NewJobResultRepo(db *sql.DB) *JobResultRepo {
	return &JobResultRepo{DB: db}
}

// Append records one accepted candidate payload for a job.
func (r *JobResultRepo) Append(ctx context.Context, params core.AppendJobResultParams) (*model.JobResult, error) {
	if r == nil || r.DB == nil {
		return nil, ErrJobResultsNotConfigured
	}
	if params.JobID == "" {
		return nil, ErrJobIDRequired
	}

	payload := params.Payload
	if len(payload) == 0 {
		payload = []byte(`{}`)
	}

	const query = `
		INSERT INTO job_results (job_id, recipient_id, payload)
		VALUES ($1, $2, $3)
		RETURNING id, job_id, recipient_id, payload, created_at`

	var res *model.JobResult
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, params.JobID, params.RecipientID, payload)
		if err != nil {
			return err
		}
		defer rows.Close()
		result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.JobResult])
		if err != nil {
			return err
		}
		res = &result
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("append job_result: %w", err)
	}
	return res, nil
}

// ListByJobID retrieves job results for a given job ID in insertion order.
func (r *JobResultRepo) ListByJobID(ctx context.Context, jobID string) ([]*model.JobResult, error) {
	if r == nil || r.DB == nil {
		return nil, ErrJobResultsNotConfigured
	}
	if jobID == "" {
		return nil, ErrJobIDRequired
	}

	const query = `
		SELECT id, job_id, recipient_id, payload, created_at
		FROM job_results
		WHERE job_id = $1
		ORDER BY created_at ASC, id ASC`

	var rowsOut []*model.JobResult
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, jobID)
		if err != nil {
			return err
		}
		defer rows.Close()

		collected, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.JobResult])
		if err != nil {
			return err
		}
		for i := range collected {
			row := collected[i]
			rowsOut = append(rowsOut, &row)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list job_results: %w", err)
	}
	return rowsOut, nil
}

// CountByJobID returns the number of results recorded for a job.
func (r *JobResultRepo) CountByJobID(ctx context.Context, jobID string) (int, error) {
	if r == nil || r.DB == nil {
		return 0, ErrJobResultsNotConfigured
	}
	if jobID == "" {
		return 0, ErrJobIDRequired
	}

	var count int
	if err := r.DB.QueryRowContext(ctx, `SELECT count(*) FROM job_results WHERE job_id = $1`, jobID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count job_results: %w", err)
	}
	return count, nil
}
