package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/giftwell/lookalike-api/internal/data/pgxutil"
	"github.com/giftwell/lookalike-api/internal/domain/model"
)

// insertJobParams groups parameters for inserting a job within a transaction.
type insertJobParams struct {
	Req        *model.CreateJobRequest
	Payload    []byte
	MaxRetries int
}

const defaultRetryDelaySeconds = 30

func (r *JobRepo) retryDelay() int {
	if r.cfg.RetryDelaySeconds > 0 {
		return r.cfg.RetryDelaySeconds
	}
	return defaultRetryDelaySeconds
}

// SQL used by ReserveNext to atomically reserve the next job.
const reserveNextUpdateSQL = `
  WITH cte AS (
    SELECT id FROM jobs
    WHERE type = $1 AND status = 'pending' AND scheduled_at <= $2
    ORDER BY scheduled_at ASC, created_at ASC
    LIMIT 1
    FOR UPDATE SKIP LOCKED
  )
  UPDATE jobs j
  SET
    status = 'in-progress',
    started_at = COALESCE(j.started_at, $3),
    lease_expires_at = $4,
    updated_at = $5
  FROM cte
  WHERE j.id = cte.id
  RETURNING j.id, j.type, j.status, j.list_id, j.campaign_id, j.vendor, j.payload, j.result_count, j.scheduled_at, j.started_at, j.completed_at, j.retry_count, j.max_retries, j.last_error, j.lease_expires_at, j.created_at, j.updated_at`

// Create creates a new job in the database with the given parameters.
func (r *JobRepo) Create(
	ctx context.Context,
	req *model.CreateJobRequest,
) (*model.Job, error) {
	if req == nil {
		return nil, errors.New("create job request is required")
	}

	if validateErr := req.Validate(); validateErr != nil {
		return nil, validateErr
	}

	payload, maxRetries, err := r.prepareJobData(req)
	if err != nil {
		return nil, err
	}

	p := &insertJobParams{
		Req:        req,
		Payload:    payload,
		MaxRetries: maxRetries,
	}

	var job *model.Job
	if txErr := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			var insertErr error
			job, insertErr = r.insertJobInTx(ctx, tx, p)
			return insertErr
		},
	}); txErr != nil {
		return nil, txErr
	}

	return job, nil
}

// CreateInTx inserts a job within an existing SQL transaction.
func (r *JobRepo) CreateInTx(
	ctx context.Context,
	sqlTx *sql.Tx,
	req *model.CreateJobRequest,
) (*model.Job, error) {
	if sqlTx == nil {
		return nil, errors.New("transaction is required")
	}
	if req == nil {
		return nil, errors.New("create job request is required")
	}
	if validateErr := req.Validate(); validateErr != nil {
		return nil, validateErr
	}

	payload, maxRetries, prepErr := r.prepareJobData(req)
	if prepErr != nil {
		return nil, prepErr
	}

	params := &insertJobParams{
		Req:        req,
		Payload:    payload,
		MaxRetries: maxRetries,
	}

	query, args := r.buildInsertQuery(params)
	row := sqlTx.QueryRowContext(ctx, query, args...)

	job, scanErr := scanJobFromRow(row)
	if scanErr != nil {
		return nil, fmt.Errorf("collect job: %w", scanErr)
	}

	channel := "job_added_" + string(req.Type)
	if _, notifyErr := sqlTx.ExecContext(ctx, `SELECT pg_notify($1::text, $2::text)`, channel, job.ID); notifyErr != nil {
		return nil, fmt.Errorf("send job notification: %w", notifyErr)
	}

	return job, nil
}

// prepareJobData normalises the payload and retry ceiling for job creation.
func (r *JobRepo) prepareJobData(req *model.CreateJobRequest) ([]byte, int, error) {
	if req == nil {
		return nil, 0, errors.New("create job request is required")
	}

	payload := []byte(req.Payload)
	if !json.Valid(payload) {
		return nil, 0, errors.New("payload must be valid JSON")
	}

	maxRetries := 3
	if req.MaxRetries > 0 {
		maxRetries = req.MaxRetries
	}

	return payload, maxRetries, nil
}

// insertJobInTx inserts a job within a pgx.Tx and returns the created job.
func (r *JobRepo) insertJobInTx(ctx context.Context, tx pgx.Tx, params *insertJobParams) (*model.Job, error) {
	if params == nil || params.Req == nil {
		return nil, errors.New("insert job params are required")
	}

	query, args := r.buildInsertQuery(params)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	job, collectErr := collectJobFromRows(rows)
	rows.Close()
	if collectErr != nil {
		return nil, fmt.Errorf("collect job: %w", collectErr)
	}

	channel := "job_added_" + string(params.Req.Type)
	if _, execErr := tx.Exec(ctx, `SELECT pg_notify($1::text, $2::text)`, channel, job.ID); execErr != nil {
		return nil, fmt.Errorf("send job notification: %w", execErr)
	}

	return job, nil
}

// buildInsertQuery builds an INSERT statement for a job based on the provided parameters.
func (r *JobRepo) buildInsertQuery(p *insertJobParams) (string, []any) {
	if p == nil || p.Req == nil {
		return "", nil
	}

	query := `
      INSERT INTO jobs(type, status, list_id, campaign_id, vendor, payload, scheduled_at, max_retries)
      VALUES ($1,'pending',$2,$3,$4,$5,$6,$7)
      RETURNING ` + jobColumns

	vendor := p.Req.Vendor
	if vendor == "" {
		vendor = model.DefaultVendor
	}

	var scheduledAt time.Time
	if p.Req.ScheduledAt != nil {
		scheduledAt = p.Req.ScheduledAt.UTC()
	} else {
		scheduledAt = r.timeProvider.Now().UTC()
	}

	args := []any{
		p.Req.Type,
		p.Req.ListID,
		p.Req.CampaignID,
		vendor,
		p.Payload,
		scheduledAt,
		p.MaxRetries,
	}
	return query, args
}

// collectJobFromRows collects a single job from pgx rows using pgx v5 helpers.
func collectJobFromRows(rows pgx.Rows) (*model.Job, error) {
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, pgx.ErrNoRows
	}

	job, err := scanJobFromRow(rows)
	if err != nil {
		return nil, err
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, rowsErr
	}

	return job, nil
}

type jobRowScanner interface {
	Scan(dest ...any) error
}

type jobRowData struct {
	payload                                []byte
	campaignID, lastError                  sql.NullString
	startedAt, completedAt, leaseExpiresAt sql.NullTime
}

func (d *jobRowData) scanInto(scanner jobRowScanner, job *model.Job) error {
	return scanner.Scan(
		&job.ID,
		&job.Type,
		&job.Status,
		&job.ListID,
		&d.campaignID,
		&job.Vendor,
		&d.payload,
		&job.ResultCount,
		&job.ScheduledAt,
		&d.startedAt,
		&d.completedAt,
		&job.RetryCount,
		&job.MaxRetries,
		&d.lastError,
		&d.leaseExpiresAt,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
}

func (d *jobRowData) apply(job *model.Job) {
	job.Payload = cloneJSON(d.payload)
	job.CampaignID = cloneNullableString(d.campaignID)
	job.LastError = cloneNullableString(d.lastError)
	job.StartedAt = cloneNullableTime(d.startedAt)
	job.CompletedAt = cloneNullableTime(d.completedAt)
	job.LeaseExpiresAt = cloneNullableTime(d.leaseExpiresAt)
}

func scanJobFromRow(scanner jobRowScanner) (*model.Job, error) {
	job := &model.Job{}
	var data jobRowData
	if err := data.scanInto(scanner, job); err != nil {
		return nil, err
	}

	data.apply(job)
	return job, nil
}

func cloneJSON(raw []byte) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage(`{}`)
	}
	return append(json.RawMessage(nil), raw...)
}

func cloneNullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func cloneNullableTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

// Advisory lock namespace for requeueExpired to avoid cross-job-type contention.
const advisoryLockRequeueMajor int64 = 1001

func advisoryLockRequeueMinor(jobType model.JobType) int64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(jobType))
	hashValue := h.Sum32()
	maxInt32 := uint32(math.MaxInt32)
	if hashValue > maxInt32 {
		hashValue &= maxInt32
	}
	return int64(hashValue)
}

// SQL shared by requeueExpired and the reaper: lapsed leases pick up a retry,
// and jobs out of retries fail instead of looping.
const requeueExpiredSQL = `
  UPDATE jobs
  SET
    retry_count = retry_count + 1,
    status = CASE WHEN retry_count + 1 >= max_retries THEN 'failed' ELSE 'pending' END,
    last_error = COALESCE(last_error, 'lease expired'),
    completed_at = CASE WHEN retry_count + 1 >= max_retries THEN $2::timestamptz ELSE NULL END,
    lease_expires_at = NULL,
    updated_at = $2
  WHERE %s status = 'in-progress'
    AND lease_expires_at IS NOT NULL
    AND lease_expires_at < $1`

// requeueExpired requeues expired jobs of the given type and returns the number of jobs touched.
func (r *JobRepo) requeueExpired(ctx context.Context, jobType model.JobType) (int64, error) {
	var rowsAffected int64
	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{
		Fn: func(tx *sql.Tx) error {
			var locked bool
			minorKey := advisoryLockRequeueMinor(jobType)
			if err := tx.QueryRowContext(ctx, "SELECT pg_try_advisory_xact_lock($1::integer, $2::integer)", advisoryLockRequeueMajor, minorKey).Scan(&locked); err != nil {
				return fmt.Errorf("acquire advisory lock: %w", err)
			}
			if !locked {
				rowsAffected = 0
				return nil
			}

			currentTime := r.timeProvider.Now().UTC()
			query := fmt.Sprintf(requeueExpiredSQL, "type = $3 AND")
			res, err := tx.ExecContext(ctx, query, currentTime, currentTime, jobType)
			if err != nil {
				return fmt.Errorf("requeue expired: %w", err)
			}
			ra, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected: %w", err)
			}
			rowsAffected = ra
			return nil
		},
	})
	if err != nil {
		return 0, err
	}
	return rowsAffected, nil
}

// ReserveNext reserves the next available job of the given type for processing.
func (r *JobRepo) ReserveNext(
	ctx context.Context,
	jobType model.JobType,
	leaseSeconds int,
) (*model.Job, error) {
	if !jobType.Valid() {
		return nil, fmt.Errorf("invalid job type: %s", jobType)
	}

	if _, err := r.requeueExpired(ctx, jobType); err != nil {
		return nil, fmt.Errorf("requeue expired jobs: %w", err)
	}

	var job *model.Job
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Opts: &sql.TxOptions{
			Isolation: sql.LevelReadCommitted,
			ReadOnly:  false,
		},
		Fn: func(tx pgx.Tx) error {
			currentTime := r.timeProvider.Now()
			leaseExpiresAt := currentTime.Add(time.Duration(leaseSeconds) * time.Second)

			rows, qerr := tx.Query(
				ctx,
				reserveNextUpdateSQL,
				jobType,
				currentTime.UTC(),
				currentTime.UTC(),
				leaseExpiresAt.UTC(),
				currentTime.UTC(),
			)
			if qerr != nil {
				return fmt.Errorf("reserve job: %w", qerr)
			}
			defer rows.Close()

			j, cerr := collectJobFromRows(rows)
			if errors.Is(cerr, pgx.ErrNoRows) {
				return model.ErrNoJobsAvailable
			}
			if cerr != nil {
				return fmt.Errorf("reserve job: %w", cerr)
			}
			job = j
			return nil
		},
	})
	if err != nil {
		if errors.Is(err, model.ErrNoJobsAvailable) {
			return nil, model.ErrNoJobsAvailable
		}
		return nil, err
	}
	return job, nil
}

// Heartbeat refreshes the lease on an in-progress job.
func (r *JobRepo) Heartbeat(ctx context.Context, jobID string, leaseSeconds int) (bool, error) {
	if leaseSeconds <= 0 {
		return false, errors.New("leaseSeconds must be positive")
	}

	currentTime := r.timeProvider.Now().UTC()
	leaseExpiration := currentTime.Add(time.Duration(leaseSeconds) * time.Second)

	query := `
		UPDATE jobs
		SET lease_expires_at = $2,
		    updated_at = $3
		WHERE id = $1 AND status = 'in-progress'
	`

	res, err := r.DB.ExecContext(ctx, query, jobID, leaseExpiration, currentTime)
	if err != nil {
		return false, fmt.Errorf("heartbeat job: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("heartbeat rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// Complete marks a job as completed successfully and records how many
// recipients it produced.
func (r *JobRepo) Complete(ctx context.Context, id string, resultCount int) (bool, error) {
	currentTime := r.timeProvider.Now().UTC()

	query := `
		UPDATE jobs
		SET status = 'completed',
		    result_count = $2,
		    completed_at = $3,
		    updated_at = $4,
		    lease_expires_at = NULL,
		    last_error = NULL
		WHERE id = $1 AND status = 'in-progress'
	`

	res, err := r.DB.ExecContext(ctx, query, id, resultCount, currentTime, currentTime)
	if err != nil {
		return false, fmt.Errorf("complete job: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("complete rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// Fail records the error against the job. Jobs with retries remaining are
// rescheduled after the configured retry delay; exhausted jobs go to failed.
// The returned status reports which branch was taken.
func (r *JobRepo) Fail(ctx context.Context, id, errMsg string) (model.JobStatus, error) {
	retryDelay := r.retryDelay()
	currentTime := r.timeProvider.Now()
	retryScheduledAt := currentTime.Add(time.Duration(retryDelay) * time.Second)

	query := `
      UPDATE jobs
      SET
        last_error = $2,
        retry_count = retry_count + 1,
        status = CASE WHEN retry_count + 1 >= max_retries THEN 'failed' ELSE 'pending' END,
        completed_at = CASE WHEN retry_count + 1 >= max_retries THEN $3::timestamptz ELSE NULL END,
        lease_expires_at = NULL,
        scheduled_at = CASE WHEN retry_count + 1 >= max_retries THEN scheduled_at
                            ELSE $4::timestamptz END,
        updated_at = $5
      WHERE id = $1 AND status = 'in-progress'
      RETURNING status
    `

	var status model.JobStatus
	if err := r.DB.QueryRowContext(ctx, query, id, errMsg, currentTime.UTC(), retryScheduledAt.UTC(), currentTime.UTC()).Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrJobNotFound
		}
		return "", fmt.Errorf("fail job: %w", err)
	}

	return status, nil
}

// Stats returns statistics about jobs of the given type in different states.
func (r *JobRepo) Stats(ctx context.Context, jobType model.JobType) (*model.JobStats, error) {
	var s model.JobStats
	err := r.DB.QueryRowContext(ctx, `
  SELECT
    count(*) FILTER (WHERE status = 'pending')     AS pending,
    count(*) FILTER (WHERE status = 'in-progress') AS in_progress,
    count(*) FILTER (WHERE status = 'completed')   AS completed,
    count(*) FILTER (WHERE status = 'failed')      AS failed
  FROM jobs
  WHERE type = $1
  `, jobType).Scan(
		&s.Pending,
		&s.InProgress,
		&s.Completed,
		&s.Failed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get job stats: %w", err)
	}
	return &s, nil
}

// WaitForNotification waits for a PostgreSQL notification indicating new jobs are available.
func (r *JobRepo) WaitForNotification(ctx context.Context, jobType model.JobType) error {
	conn, err := r.DB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get conn from pool: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			_ = cerr
		}
	}()

	channel := "job_added_" + string(jobType)
	quoted := pgx.Identifier{channel}.Sanitize()

	if _, execErr := conn.ExecContext(ctx, "LISTEN "+quoted); execErr != nil {
		return fmt.Errorf("listen %s: %w", channel, execErr)
	}
	defer func() {
		if _, execErr := conn.ExecContext(context.Background(), "UNLISTEN "+quoted); execErr != nil {
			_ = execErr
		}
	}()

	return conn.Raw(func(dc any) error {
		sc, ok := dc.(*stdlib.Conn)
		if !ok {
			return errors.New("unexpected driver connection type; expected *stdlib.Conn")
		}
		_, notifyErr := sc.Conn().WaitForNotification(ctx)
		return notifyErr
	})
}

// GetByID retrieves a job by its ID.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	var job *model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(pgxConn *pgx.Conn) error {
		rows, err := pgxConn.Query(ctx, `
			SELECT `+jobColumns+`
			FROM jobs
			WHERE id = $1
		`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		job, err = collectJobFromRows(rows)
		return err
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// Delete safely deletes a job by ID with state machine safety checks.
func (r *JobRepo) Delete(ctx context.Context, id string) error {
	currentTime := r.timeProvider.Now()
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM jobs
		WHERE id = $1
		  AND status IN ('pending', 'completed', 'failed')
		  AND (lease_expires_at IS NULL OR lease_expires_at <= $2)
	`, id, currentTime.UTC())
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected > 0 {
		return nil
	}

	job, err := r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return ErrJobNotFound
		}
		return fmt.Errorf("failed to re-check job after delete attempt: %w", err)
	}

	if !isJobStatusDeletable(job.Status) {
		return ErrJobNotDeletable
	}

	if job.LeaseExpiresAt != nil && currentTime.Before(*job.LeaseExpiresAt) {
		return ErrJobReserved
	}

	return errors.New("unexpected state: job is in deletable state but delete failed")
}

// isJobStatusDeletable returns true if a job in the given status can be safely deleted.
func isJobStatusDeletable(status model.JobStatus) bool {
	return status == model.JobStatusPending ||
		status == model.JobStatusCompleted ||
		status == model.JobStatusFailed
}
