package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitFullName(t *testing.T) {
	cases := []struct {
		name        string
		full        string
		first, last string
	}{
		{"simple", "Ada Lovelace", "Ada", "Lovelace"},
		{"multi-word last name preserved", "Gabriel García Márquez", "Gabriel", "García Márquez"},
		{"single word gets empty last", "Prince", "Prince", ""},
		{"surrounding whitespace trimmed", "  Jan de Vries ", "Jan", "de Vries"},
		{"empty", "", "", ""},
		{"tab separator", "Mary\tShelley", "Mary", "Shelley"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			first, last := SplitFullName(tc.full)
			assert.Equal(t, tc.first, first)
			assert.Equal(t, tc.last, last)
		})
	}
}

func TestRecipientFromProfile(t *testing.T) {
	campaignID := "c3b0d1a2-7e44-4d0a-b6f4-2f6dbb2b8a01"
	p := Profile{
		FullName:    "Ada Lovelace",
		Email:       "ada@example.com",
		Company:     "Analytical Engines",
		Title:       "Engineer",
		Country:     "UK",
		City:        "London",
		PhotoURL:    "https://img.example.com/ada.jpg",
		LinkedInURL: "https://linkedin.com/in/ada",
	}
	req := RecipientFromProfile(p, &campaignID)
	assert.Equal(t, "Ada Lovelace", req.FullName)
	assert.Equal(t, "ada@example.com", req.Email)
	assert.Equal(t, "https://linkedin.com/in/ada", req.LinkedInURL)
	assert.Equal(t, &campaignID, req.CampaignID)
	assert.NoError(t, req.Validate())
}

func TestCreateRecipientRequestValidate(t *testing.T) {
	req := CreateRecipientRequest{FullName: "   "}
	assert.Error(t, req.Validate())

	req.FullName = "Grace Hopper"
	assert.NoError(t, req.Validate())
}
