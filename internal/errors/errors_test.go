package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/creditbridge/credit-risk-engine/internal/scoring"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsMapStatusAndCategory(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		status   int
		category ErrorCategory
	}{
		{"validation", NewValidationError("bad input"), http.StatusBadRequest, CategoryValidation},
		{"auth", NewAuthError("no token", nil), http.StatusUnauthorized, CategoryAuth},
		{"permission", NewPermissionError("create"), http.StatusForbidden, CategoryPermission},
		{"not found", NewNotFoundError("assessment"), http.StatusNotFound, CategoryNotFound},
		{"artifact", NewArtifactError("corrupted", nil), http.StatusInternalServerError, CategoryArtifact},
		{"rate limit", NewRateLimitError("60"), http.StatusTooManyRequests, CategoryRateLimit},
		{"internal", NewInternalError("boom", nil), http.StatusInternalServerError, CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.category, tt.err.Category)
		})
	}
}

func TestMarshalTolerantOfNilCause(t *testing.T) {
	// None of these carry a cause; marshaling must still succeed and
	// keep the HTTP fields in the payload.
	tests := []struct {
		name string
		err  *AppError
	}{
		{"validation", NewValidationError("limit must be an integer")},
		{"auth", NewAuthError("missing bearer token", nil)},
		{"permission", NewPermissionError("create")},
		{"not found", NewNotFoundError("assessment")},
		{"artifact", NewArtifactError("scaler unreadable", nil)},
		{"rate limit", NewRateLimitError("60")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.err)
			require.NoError(t, err)

			var payload map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &payload))
			assert.Equal(t, string(tt.err.Category), payload["category"])
			assert.Equal(t, float64(tt.err.HTTPStatus), payload["http_status"])
			assert.NotEmpty(t, payload["message"])
			assert.NotContains(t, payload, "cause")
		})
	}
}

func TestMarshalIncludesCauseWhenSet(t *testing.T) {
	data, err := json.Marshal(NewAuthError("invalid token", errors.New("signature mismatch")))
	require.NoError(t, err)
	assert.Contains(t, string(data), "signature mismatch")
}

func TestToAppErrorMapsScoringSentinels(t *testing.T) {
	invalid := fmt.Errorf("%w: income must be non-negative", scoring.ErrInvalidProfile)
	appErr := ToAppError(invalid)
	assert.Equal(t, CategoryValidation, appErr.Category)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)

	corrupted := fmt.Errorf("%w: truncated json", scoring.ErrArtifactCorrupted)
	appErr = ToAppError(corrupted)
	assert.Equal(t, CategoryArtifact, appErr.Category)
}

func TestToAppErrorPassesThrough(t *testing.T) {
	original := NewPermissionError("analytics")
	assert.Same(t, original, ToAppError(original))
}

func TestToAppErrorWrapsUnknown(t *testing.T) {
	appErr := ToAppError(errors.New("something else"))
	assert.Equal(t, CategoryInternal, appErr.Category)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
}

func TestErrorHandlerRendersLastError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/", func(c *gin.Context) {
		c.Error(NewNotFoundError("assessment"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestRecoveryHandlerConvertsPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RecoveryHandler())
	router.GET("/", func(c *gin.Context) {
		panic("unexpected")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
