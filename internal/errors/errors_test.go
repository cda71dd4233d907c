package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler(t *testing.T) *ErrorHandler {
	t.Helper()
	return NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
}

func TestAPIErrorError(t *testing.T) {
	err := New(http.StatusNotFound, "COMPANY_NOT_FOUND", "company not found")
	assert.Equal(t, "company not found", err.Error())
}

func TestProblemDetailsMarshalJSON(t *testing.T) {
	problem := NewProblemDetails(
		http.StatusNotFound,
		TypeDataNotFound,
		"Not Found",
		"layoffs.csv missing",
		"/api/summary",
	).WithExtension("trace_id", "req-1")

	raw, err := json.Marshal(problem)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, TypeDataNotFound, decoded["type"])
	assert.Equal(t, float64(http.StatusNotFound), decoded["status"])
	assert.Equal(t, "layoffs.csv missing", decoded["detail"])
	assert.Equal(t, "req-1", decoded["trace_id"])
}

func TestErrorToProblem(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "api error maps by code",
			err:        CompanyNotFoundError("Acme"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeCompanyNotFound,
		},
		{
			name:       "app parsing error",
			err:        NewParsingError("bad csv row", fmt.Errorf("strconv")),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeDataCorrupted,
		},
		{
			name:       "app not found error",
			err:        NewNotFoundError("dataset"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "context deadline",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "plain not found string",
			err:        fmt.Errorf("fused report not found"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "unknown error",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/summary", problem.Instance)
		})
	}
}

func TestHandleErrorWritesProblemJSON(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/companies", nil)
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, ErrDataNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, TypeDataNotFound, decoded["type"])
	assert.Equal(t, "DATA_NOT_FOUND", decoded["error_code"])
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := testHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	h.NotFound(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/summary", nil)
	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAppErrorWrapping(t *testing.T) {
	cause := fmt.Errorf("open layoffs.csv: no such file")
	err := NewStorageError("reading dataset", cause).WithContext("path", "layoffs.csv")

	assert.ErrorContains(t, err, "STORAGE")
	assert.Equal(t, cause, err.Unwrap())
	assert.Equal(t, "layoffs.csv", err.Context["path"])
}
