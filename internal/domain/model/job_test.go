package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobTypeValid(t *testing.T) {
	assert.True(t, JobTypeLookalike.Valid())
	assert.True(t, JobTypeImport.Valid())
	assert.False(t, JobType("browser").Valid())
	assert.False(t, JobType("").Valid())
}

func TestJobTypeUnmarshalText(t *testing.T) {
	var jt JobType
	require.NoError(t, jt.UnmarshalText([]byte(" Lookalike ")))
	assert.Equal(t, JobTypeLookalike, jt)

	err := jt.UnmarshalText([]byte("bogus"))
	require.Error(t, err)
}

func TestJobStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to JobStatus
		ok       bool
	}{
		{JobStatusPending, JobStatusInProgress, true},
		{JobStatusPending, JobStatusFailed, true},
		{JobStatusPending, JobStatusCompleted, false},
		{JobStatusInProgress, JobStatusCompleted, true},
		{JobStatusInProgress, JobStatusFailed, true},
		{JobStatusInProgress, JobStatusPending, true}, // requeue on lease expiry
		{JobStatusCompleted, JobStatusInProgress, false},
		{JobStatusFailed, JobStatusPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestJobStatusTerminal(t *testing.T) {
	assert.False(t, JobStatusPending.Terminal())
	assert.False(t, JobStatusInProgress.Terminal())
	assert.True(t, JobStatusCompleted.Terminal())
	assert.True(t, JobStatusFailed.Terminal())
}

func TestCreateJobRequestValidate(t *testing.T) {
	listID := "0b9fcb5e-5b2a-4f5e-9d3f-0a4f0f8f9f11"
	campaignID := "c3b0d1a2-7e44-4d0a-b6f4-2f6dbb2b8a01"
	payload := json.RawMessage(`{"seed_urls":["https://linkedin.com/in/x"],"target_count":5}`)

	t.Run("valid lookalike", func(t *testing.T) {
		req := CreateJobRequest{
			Type:    JobTypeLookalike,
			ListID:  listID,
			Vendor:  VendorOcean,
			Payload: payload,
		}
		require.NoError(t, req.Validate())
	})

	t.Run("valid import without vendor", func(t *testing.T) {
		req := CreateJobRequest{
			Type:    JobTypeImport,
			ListID:  listID,
			Payload: json.RawMessage(`{"contacts":[]}`),
		}
		require.NoError(t, req.Validate())
	})

	t.Run("invalid type", func(t *testing.T) {
		req := CreateJobRequest{Type: "nope", ListID: listID, Payload: payload}
		assert.Error(t, req.Validate())
	})

	t.Run("bad list id", func(t *testing.T) {
		req := CreateJobRequest{Type: JobTypeLookalike, ListID: "not-a-uuid", Vendor: VendorOcean, Payload: payload}
		assert.Error(t, req.Validate())
	})

	t.Run("bad campaign id", func(t *testing.T) {
		bad := "123"
		req := CreateJobRequest{
			Type:       JobTypeLookalike,
			ListID:     listID,
			CampaignID: &bad,
			Vendor:     VendorOcean,
			Payload:    payload,
		}
		assert.Error(t, req.Validate())
		req.CampaignID = &campaignID
		assert.NoError(t, req.Validate())
	})

	t.Run("lookalike requires vendor", func(t *testing.T) {
		req := CreateJobRequest{Type: JobTypeLookalike, ListID: listID, Payload: payload}
		assert.Error(t, req.Validate())
	})

	t.Run("empty payload", func(t *testing.T) {
		req := CreateJobRequest{Type: JobTypeLookalike, ListID: listID, Vendor: VendorOcean}
		assert.Error(t, req.Validate())
	})

	t.Run("negative max retries", func(t *testing.T) {
		req := CreateJobRequest{
			Type:       JobTypeLookalike,
			ListID:     listID,
			Vendor:     VendorOcean,
			Payload:    payload,
			MaxRetries: -1,
		}
		assert.Error(t, req.Validate())
	})
}

func TestJobFinalAttempt(t *testing.T) {
	j := &Job{RetryCount: 0, MaxRetries: 3}
	assert.False(t, j.FinalAttempt())
	j.RetryCount = 2
	assert.True(t, j.FinalAttempt())
	j = &Job{RetryCount: 0, MaxRetries: 0}
	assert.True(t, j.FinalAttempt())
}
