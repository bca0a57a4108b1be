package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"orderdesk/internal/model"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
		expectedUnmet  []string
	}{
		{
			name:           "Not found",
			err:            fmt.Errorf("order ED009: %w", model.ErrOrderNotFound),
			expectedStatus: http.StatusNotFound,
			expectedCode:   model.ErrCodeNotFound,
		},
		{
			name:           "Self dependency",
			err:            model.ErrSelfDependency,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeSelfDependency,
		},
		{
			name:           "Invalid range",
			err:            model.ErrInvalidRating,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidRange,
		},
		{
			name:           "Dependency unmet",
			err:            &model.DependencyUnmetError{OrderCode: "ED002", Unmet: []string{"ED001"}},
			expectedStatus: http.StatusConflict,
			expectedCode:   model.ErrCodeDependencyUnmet,
			expectedUnmet:  []string{"ED001"},
		},
		{
			name:           "Duplicate review",
			err:            model.ErrDuplicateReview,
			expectedStatus: http.StatusConflict,
			expectedCode:   model.ErrCodeDuplicateReview,
		},
		{
			name:           "Unauthorized",
			err:            model.ErrNotOrderCustomer,
			expectedStatus: http.StatusForbidden,
			expectedCode:   model.ErrCodeUnauthorised,
		},
		{
			name:           "Infrastructure failure hides details",
			err:            errors.New("pq: connection reset"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   model.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeServiceError(w, tt.err, zerolog.Nop())

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			resp := decodeBody[ErrorResponse](t, w)
			assert.Equal(t, tt.expectedCode, resp.Code)
			assert.Equal(t, tt.expectedUnmet, resp.Unmet)
			if tt.expectedStatus == http.StatusInternalServerError {
				assert.Equal(t, "internal server error", resp.Error)
			}
		})
	}
}
