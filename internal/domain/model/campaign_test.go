package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignStatusValid(t *testing.T) {
	assert.True(t, CampaignStatusReadyToLaunch.Valid())
	assert.True(t, CampaignStatusLive.Valid())
	assert.False(t, CampaignStatus("archived").Valid())
}

func TestResolveOnCompleteStatus(t *testing.T) {
	t.Run("default when nil", func(t *testing.T) {
		assert.Equal(t, CampaignStatusReadyToLaunch, ResolveOnCompleteStatus(nil))
	})

	t.Run("override applied", func(t *testing.T) {
		oc := &OnComplete{Status: CampaignStatusLive}
		assert.Equal(t, CampaignStatusLive, ResolveOnCompleteStatus(oc))
	})

	t.Run("invalid override falls back to default", func(t *testing.T) {
		oc := &OnComplete{Status: CampaignStatus("bogus")}
		assert.Equal(t, CampaignStatusReadyToLaunch, ResolveOnCompleteStatus(oc))
	})
}

func TestCampaignIsBoost(t *testing.T) {
	parent := "c3b0d1a2-7e44-4d0a-b6f4-2f6dbb2b8a01"
	c := &Campaign{}
	assert.False(t, c.IsBoost())
	c.ParentCampaignID = &parent
	assert.True(t, c.IsBoost())
	empty := ""
	c.ParentCampaignID = &empty
	assert.False(t, c.IsBoost())
}

func TestCreateCampaignRequestValidate(t *testing.T) {
	req := CreateCampaignRequest{Name: "Holiday Boost"}
	require.NoError(t, req.Validate())

	req.Name = ""
	assert.Error(t, req.Validate())

	req = CreateCampaignRequest{Name: "x", BudgetCents: -5}
	assert.Error(t, req.Validate())
}

func TestUpdateCampaignRequestValidate(t *testing.T) {
	t.Run("no fields", func(t *testing.T) {
		req := UpdateCampaignRequest{}
		assert.Error(t, req.Validate())
	})

	t.Run("invalid status", func(t *testing.T) {
		bad := CampaignStatus("whatever")
		req := UpdateCampaignRequest{Status: &bad}
		assert.Error(t, req.Validate())
	})

	t.Run("valid status", func(t *testing.T) {
		st := CampaignStatusLive
		req := UpdateCampaignRequest{Status: &st}
		assert.NoError(t, req.Validate())
	})
}
