package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecpulse/internal/analytics"
)

func TestFromErrorMapsAnalyticsSentinels(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid range", fmt.Errorf("wrap: %w", analytics.ErrInvalidRange), http.StatusBadRequest, "INVALID_RANGE"},
		{"invalid granularity", analytics.ErrInvalidGranularity, http.StatusBadRequest, "INVALID_GRANULARITY"},
		{"invalid window", analytics.ErrInvalidWindow, http.StatusBadRequest, "INVALID_PARAMETER"},
		{"unknown field", fmt.Errorf("group: %w", analytics.ErrUnknownField), http.StatusBadRequest, "UNKNOWN_FIELD"},
		{"unknown metric", analytics.ErrUnknownMetric, http.StatusBadRequest, "INVALID_PARAMETER"},
		{"unrecognized", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromError(tt.err)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
		})
	}
}

func TestFromErrorMapsValidationErrors(t *testing.T) {
	type query struct {
		Field string `validate:"required"`
	}
	err := validator.New().Struct(query{})
	require.Error(t, err)

	apiErr := FromError(err)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "INVALID_PARAMETER", apiErr.ErrorCode)
}

func TestFromErrorPassesThroughAPIError(t *testing.T) {
	original := New(http.StatusNotFound, "NOT_FOUND", "missing")
	assert.Same(t, original, FromError(original))
}

func TestAPIErrorInterface(t *testing.T) {
	err := NewWithDetails(http.StatusBadRequest, "INVALID_PARAMETER", "bad field", "field=granularity")
	assert.Equal(t, "bad field", err.Error())
	assert.Equal(t, "field=granularity", err.Details)
}
