package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLimitOffset(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults when omitted", "", 50, 0},
		{"explicit values", "limit=25&offset=100", 25, 100},
		{"clamps oversized limit", "limit=5000", 1000, 0},
		{"floors zero limit", "limit=0", 1, 0},
		{"floors negative offset", "offset=-10", 50, 0},
		{"ignores non-numeric values", "limit=abc&offset=xyz", 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/lists?"+tt.query, nil)
			limit, offset := ParseLimitOffset(r, 50, 1000)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, isValidationError(errors.New("name is required and cannot be empty")))
	assert.True(t, isValidationError(errors.New("target count must be between 1 and 1000")))
	assert.True(t, isValidationError(errors.New(`invalid vendor: "clearbit"`)))
	assert.False(t, isValidationError(errors.New("connection refused")))
	assert.False(t, isValidationError(nil))
}
