package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftwell/lookalike-api/internal/domain/model"
	"github.com/giftwell/lookalike-api/internal/testutil"
)

func newTestJobRepo(db *sql.DB) *JobRepo {
	return NewJobRepo(db, RepoConfig{RetryDelaySeconds: 1})
}

// createTestList inserts a list directly so jobs have a valid FK target.
func createTestList(t *testing.T, db *sql.DB) string {
	t.Helper()
	var id string
	err := db.QueryRowContext(context.Background(), `
		INSERT INTO lists (name) VALUES ($1) RETURNING id
	`, "test-list-"+uuid.NewString()).Scan(&id)
	require.NoError(t, err)
	return id
}

func lookalikeJobRequest(listID string) *model.CreateJobRequest {
	return &model.CreateJobRequest{
		Type:       model.JobTypeLookalike,
		ListID:     listID,
		Vendor:     model.VendorOcean,
		Payload:    json.RawMessage(`{"seed_urls":["https://linkedin.com/in/someone"],"target_count":10}`),
		MaxRetries: 3,
	}
}

func TestJobRepo_CreateAndGet(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := newTestJobRepo(db)
		ctx := context.Background()
		listID := createTestList(t, db)

		job, err := repo.Create(ctx, lookalikeJobRequest(listID))
		require.NoError(t, err)
		assert.NotEmpty(t, job.ID)
		assert.Equal(t, model.JobTypeLookalike, job.Type)
		assert.Equal(t, model.JobStatusPending, job.Status)
		assert.Equal(t, listID, job.ListID)
		assert.Equal(t, model.VendorOcean, job.Vendor)
		assert.Equal(t, 3, job.MaxRetries)

		got, err := repo.GetByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, job.ID, got.ID)
		assert.JSONEq(t, string(job.Payload), string(got.Payload))
	})
}

func TestJobRepo_Create_Invalid(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := newTestJobRepo(db)
		ctx := context.Background()
		listID := createTestList(t, db)

		tests := []struct {
			name   string
			mutate func(*model.CreateJobRequest)
			errMsg string
		}{
			{
				name:   "invalid type",
				mutate: func(r *model.CreateJobRequest) { r.Type = "invalid" },
				errMsg: "invalid job type",
			},
			{
				name:   "bad list id",
				mutate: func(r *model.CreateJobRequest) { r.ListID = "not-a-uuid" },
				errMsg: "list id must be a valid UUID",
			},
			{
				name:   "lookalike without vendor",
				mutate: func(r *model.CreateJobRequest) { r.Vendor = "" },
				errMsg: "invalid vendor",
			},
			{
				name:   "empty payload",
				mutate: func(r *model.CreateJobRequest) { r.Payload = nil },
				errMsg: "payload is required",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req := lookalikeJobRequest(listID)
				tt.mutate(req)
				_, err := repo.Create(ctx, req)
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			})
		}
	})
}

func TestJobRepo_GetByID_NotFound(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := newTestJobRepo(db)

		_, err := repo.GetByID(context.Background(), uuid.NewString())
		require.ErrorIs(t, err, ErrJobNotFound)
	})
}

func TestJobRepo_ReserveCompleteLifecycle(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := newTestJobRepo(db)
		ctx := context.Background()
		listID := createTestList(t, db)

		created, err := repo.Create(ctx, lookalikeJobRequest(listID))
		require.NoError(t, err)

		reserved, err := repo.ReserveNext(ctx, model.JobTypeLookalike, 60)
		require.NoError(t, err)
		assert.Equal(t, created.ID, reserved.ID)
		assert.Equal(t, model.JobStatusInProgress, reserved.Status)
		require.NotNil(t, reserved.LeaseExpiresAt)
		assert.NotNil(t, reserved.StartedAt)

		// Queue is drained now
		_, err = repo.ReserveNext(ctx, model.JobTypeLookalike, 60)
		require.ErrorIs(t, err, model.ErrNoJobsAvailable)

		ok, err := repo.Heartbeat(ctx, reserved.ID, 120)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Complete(ctx, reserved.ID, 7)
		require.NoError(t, err)
		assert.True(t, ok)

		// Completing again is a no-op: the job left in-progress
		ok, err = repo.Complete(ctx, reserved.ID, 7)
		require.NoError(t, err)
		assert.False(t, ok)

		final, err := repo.GetByID(ctx, reserved.ID)
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusCompleted, final.Status)
		assert.Equal(t, 7, final.ResultCount)
		assert.NotNil(t, final.CompletedAt)
		assert.Nil(t, final.LeaseExpiresAt)
	})
}

func TestJobRepo_Heartbeat_NotInProgress(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := newTestJobRepo(db)
		ctx := context.Background()
		listID := createTestList(t, db)

		job, err := repo.Create(ctx, lookalikeJobRequest(listID))
		require.NoError(t, err)

		ok, err := repo.Heartbeat(ctx, job.ID, 60)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestJobRepo_FailRequeuesThenExhausts(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := newTestJobRepo(db)
		ctx := context.Background()
		listID := createTestList(t, db)

		req := lookalikeJobRequest(listID)
		req.MaxRetries = 2
		job, err := repo.Create(ctx, req)
		require.NoError(t, err)

		reserved, err := repo.ReserveNext(ctx, model.JobTypeLookalike, 60)
		require.NoError(t, err)
		require.Equal(t, job.ID, reserved.ID)

		// First failure: one retry left, so the job is requeued
		status, err := repo.Fail(ctx, job.ID, "vendor timeout")
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusPending, status)

		requeued, err := repo.GetByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, requeued.RetryCount)
		require.NotNil(t, requeued.LastError)
		assert.Equal(t, "vendor timeout", *requeued.LastError)

		// Retry delay pushes scheduled_at forward; wait it out before reserving again
		time.Sleep(1500 * time.Millisecond)

		reserved, err = repo.ReserveNext(ctx, model.JobTypeLookalike, 60)
		require.NoError(t, err)
		require.Equal(t, job.ID, reserved.ID)

		// Second failure exhausts the retry budget
		status, err = repo.Fail(ctx, job.ID, "vendor timeout again")
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusFailed, status)

		failed, err := repo.GetByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusFailed, failed.Status)
		assert.NotNil(t, failed.CompletedAt)
	})
}

func TestJobRepo_Fail_NotInProgress(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := newTestJobRepo(db)
		ctx := context.Background()
		listID := createTestList(t, db)

		job, err := repo.Create(ctx, lookalikeJobRequest(listID))
		require.NoError(t, err)

		_, err = repo.Fail(ctx, job.ID, "boom")
		require.ErrorIs(t, err, ErrJobNotFound)
	})
}

func TestJobRepo_Stats(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := newTestJobRepo(db)
		ctx := context.Background()
		listID := createTestList(t, db)

		for range 3 {
			_, err := repo.Create(ctx, lookalikeJobRequest(listID))
			require.NoError(t, err)
		}
		_, err := repo.ReserveNext(ctx, model.JobTypeLookalike, 60)
		require.NoError(t, err)

		stats, err := repo.Stats(ctx, model.JobTypeLookalike)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Pending)
		assert.Equal(t, 1, stats.InProgress)
		assert.Equal(t, 0, stats.Completed)
		assert.Equal(t, 0, stats.Failed)
	})
}

func TestJobRepo_Delete(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := newTestJobRepo(db)
		ctx := context.Background()
		listID := createTestList(t, db)

		t.Run("deletes pending job", func(t *testing.T) {
			job, err := repo.Create(ctx, lookalikeJobRequest(listID))
			require.NoError(t, err)

			require.NoError(t, repo.Delete(ctx, job.ID))

			_, err = repo.GetByID(ctx, job.ID)
			require.ErrorIs(t, err, ErrJobNotFound)
		})

		t.Run("rejects in-progress job", func(t *testing.T) {
			_, err := repo.Create(ctx, lookalikeJobRequest(listID))
			require.NoError(t, err)
			reserved, err := repo.ReserveNext(ctx, model.JobTypeLookalike, 60)
			require.NoError(t, err)

			err = repo.Delete(ctx, reserved.ID)
			require.ErrorIs(t, err, ErrJobNotDeletable)
		})

		t.Run("unknown job", func(t *testing.T) {
			err := repo.Delete(ctx, uuid.NewString())
			require.ErrorIs(t, err, ErrJobNotFound)
		})
	})
}

func TestJobRepo_List_Filters(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := newTestJobRepo(db)
		ctx := context.Background()
		listA := createTestList(t, db)
		listB := createTestList(t, db)

		_, err := repo.Create(ctx, lookalikeJobRequest(listA))
		require.NoError(t, err)
		_, err = repo.Create(ctx, lookalikeJobRequest(listB))
		require.NoError(t, err)
		_, err = repo.Create(ctx, &model.CreateJobRequest{
			Type:    model.JobTypeImport,
			ListID:  listB,
			Payload: json.RawMessage(`{"contacts":[{"full_name":"Ada Lovelace"}]}`),
		})
		require.NoError(t, err)

		jobType := model.JobTypeLookalike
		jobs, err := repo.List(ctx, &model.JobListOptions{Type: &jobType, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, jobs, 2)

		jobs, err = repo.List(ctx, &model.JobListOptions{ListID: &listB, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, jobs, 2)

		status := model.JobStatusPending
		jobs, err = repo.List(ctx, &model.JobListOptions{Status: &status, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, jobs, 3)
	})
}
