package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eborodin/eventum/internal/app/models/dto"
)

// parseIDParam extracts a positive numeric path parameter. On failure it
// writes the 400 response itself and reports false.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, name+" must be a positive number")))
		return 0, false
	}
	return id, true
}

// parseIDList parses a comma separated or repeated numeric query parameter
func parseIDList(ctx *gin.Context, name string) ([]int64, bool) {
	values := ctx.QueryArray(name)
	ids := make([]int64, 0, len(values))
	for _, value := range values {
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeValidationFailed, name+" must contain numbers")))
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
