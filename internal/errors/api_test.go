package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorHelpers(t *testing.T) {
	cause := fmt.Errorf("row 3, column \"Profit\": invalid amount")

	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
	}{
		{"pipeline execution", ErrPipelineExecution(cause), http.StatusUnprocessableEntity, "PIPELINE_FAILED"},
		{"unreadable upload", UnreadableUploadError(cause), http.StatusBadRequest, "UNREADABLE_UPLOAD"},
		{"invalid request", InvalidRequestWithError(cause), http.StatusBadRequest, "INVALID_REQUEST"},
		{"missing upload", ErrMissingUpload, http.StatusBadRequest, "MISSING_UPLOAD"},
		{"validation failed", ErrValidationFailed, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"internal", ErrInternalServer, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestErrPipelineExecutionCarriesDetail(t *testing.T) {
	cause := fmt.Errorf("missing required column: Profit")
	err := ErrPipelineExecution(cause)
	assert.Equal(t, cause.Error(), err.Details)
	assert.Equal(t, "The sales data could not be processed", err.Message)
}

func TestNewValidationErrors(t *testing.T) {
	err := NewValidationErrors([]ValidationError{
		{Field: "DefaultCurrency", Message: "failed \"oneof\" validation"},
		{Field: "Title", Message: "failed \"max\" validation"},
	})

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)

	details, ok := err.Details.(ValidationErrors)
	require.True(t, ok)
	require.Len(t, details.Errors, 2)
	assert.Equal(t, "DefaultCurrency", details.Errors[0].Field)
}

func TestErrorResponseRendering(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/report/preview", nil)

	require.NoError(t, render.Render(rec, req, NewErrorResponse(ErrMissingUpload)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope struct {
		Success bool      `json:"success"`
		Error   *APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "MISSING_UPLOAD", envelope.Error.ErrorCode)
	assert.Equal(t, "No file was uploaded", envelope.Error.Message)
}
