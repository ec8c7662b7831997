package middleware

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eborodin/eventum/internal/app/models/dto"
	"github.com/eborodin/eventum/internal/pkg/apperrors"
)

func TestHandleAPIError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    dto.ErrorCode
		wantMessage string
	}{
		{
			name:        "not found maps to 404",
			err:         apperrors.NewNotFoundError("event not found"),
			wantStatus:  404,
			wantCode:    dto.ErrorCodeResourceNotFound,
			wantMessage: "event not found",
		},
		{
			name:        "condition not met maps to 409",
			err:         apperrors.NewConditionNotMetError("event is not published"),
			wantStatus:  409,
			wantCode:    dto.ErrorCodeConditionNotMet,
			wantMessage: "event is not published",
		},
		{
			name:        "conflict maps to 409",
			err:         apperrors.NewConflictError("participant limit exhausted"),
			wantStatus:  409,
			wantCode:    dto.ErrorCodeConflict,
			wantMessage: "participant limit exhausted",
		},
		{
			name:        "invalid input maps to 400",
			err:         apperrors.NewInvalidInputError("invalid date range"),
			wantStatus:  400,
			wantCode:    dto.ErrorCodeValidationFailed,
			wantMessage: "invalid date range",
		},
		{
			name:        "unknown errors hide details behind 500",
			err:         errors.New("pgx: connection refused"),
			wantStatus:  500,
			wantCode:    dto.ErrorCodeInternalServer,
			wantMessage: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)
			c.Request = httptest.NewRequest("GET", "/api/v1/events/1", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			var response dto.APIResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
			assert.False(t, response.Success)
			require.NotNil(t, response.Error)
			assert.Equal(t, tt.wantCode, response.Error.Code)
			assert.Equal(t, tt.wantMessage, response.Error.Message)
		})
	}
}
