package data

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/giftwell/lookalike-api/internal/domain/model"
)

func TestBuildJobListQuery_NoFilters(t *testing.T) {
	query, args := buildJobListQuery(&model.JobListOptions{})

	assert.Contains(t, query, "FROM jobs")
	assert.Contains(t, query, "WHERE 1=1")
	assert.NotContains(t, query, "AND")
	assert.Contains(t, query, "ORDER BY created_at DESC, id DESC")
	assert.Empty(t, args)
}

func TestBuildJobListQuery_AllFilters(t *testing.T) {
	jobType := model.JobTypeLookalike
	status := model.JobStatusPending
	listID := "list-1"

	query, args := buildJobListQuery(&model.JobListOptions{
		Type:   &jobType,
		Status: &status,
		ListID: &listID,
	})

	assert.Contains(t, query, "AND type = $1")
	assert.Contains(t, query, "AND status = $2")
	assert.Contains(t, query, "AND list_id = $3")
	assert.Equal(t, []any{jobType, status, listID}, args)
}

func TestBuildJobListQuery_SkipsEmptyFilters(t *testing.T) {
	empty := model.JobType("")
	listID := "list-1"

	query, args := buildJobListQuery(&model.JobListOptions{
		Type:   &empty,
		ListID: &listID,
	})

	assert.NotContains(t, query, "type =")
	assert.Contains(t, query, "AND list_id = $1")
	assert.Equal(t, []any{listID}, args)
}
