package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eborodin/eventum/internal/app/models/dto"
	"github.com/eborodin/eventum/internal/app/services"
	"github.com/eborodin/eventum/internal/middleware"
	"github.com/eborodin/eventum/internal/pkg/helpers"
)

// CompilationController handles compilation related operations
type CompilationController struct {
	compilationService services.CompilationService
}

// NewCompilationController creates a new CompilationController
func NewCompilationController(compilationService services.CompilationService) *CompilationController {
	return &CompilationController{compilationService: compilationService}
}

// CreateCompilation handles creating a compilation
// @Summary Create a compilation
// @Tags compilations
// @Accept json
// @Produce json
// @Param request body dto.NewCompilationRequest true "New compilation request"
// @Success 201 {object} dto.APIResponse{data=dto.CompilationResponse} "Compilation created successfully"
// @Failure 404 {object} dto.APIResponse "Linked event not found"
// @Router /admin/compilations [post]
func (c *CompilationController) CreateCompilation(ctx *gin.Context) {
	var req dto.NewCompilationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))
		return
	}

	compilation, err := c.compilationService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(compilation))
}

// DeleteCompilation handles removing a compilation
// @Summary Delete a compilation
// @Tags compilations
// @Produce json
// @Param compId path int true "Compilation ID"
// @Success 204 "Compilation deleted"
// @Failure 404 {object} dto.APIResponse "Compilation not found"
// @Router /admin/compilations/{compId} [delete]
func (c *CompilationController) DeleteCompilation(ctx *gin.Context) {
	compilationID, ok := parseIDParam(ctx, "compId")
	if !ok {
		return
	}

	if err := c.compilationService.Delete(ctx, compilationID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// AddEventToCompilation handles linking an event into a compilation
// @Summary Add event to compilation
// @Tags compilations
// @Produce json
// @Param compId path int true "Compilation ID"
// @Param eventId path int true "Event ID"
// @Success 204 "Event linked"
// @Failure 404 {object} dto.APIResponse "Compilation or event not found"
// @Router /admin/compilations/{compId}/events/{eventId} [patch]
func (c *CompilationController) AddEventToCompilation(ctx *gin.Context) {
	compilationID, ok := parseIDParam(ctx, "compId")
	if !ok {
		return
	}
	eventID, ok := parseIDParam(ctx, "eventId")
	if !ok {
		return
	}

	if err := c.compilationService.AddEvent(ctx, compilationID, eventID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// RemoveEventFromCompilation handles unlinking an event from a compilation
// @Summary Remove event from compilation
// @Tags compilations
// @Produce json
// @Param compId path int true "Compilation ID"
// @Param eventId path int true "Event ID"
// @Success 204 "Event unlinked"
// @Failure 404 {object} dto.APIResponse "Compilation not found"
// @Router /admin/compilations/{compId}/events/{eventId} [delete]
func (c *CompilationController) RemoveEventFromCompilation(ctx *gin.Context) {
	compilationID, ok := parseIDParam(ctx, "compId")
	if !ok {
		return
	}
	eventID, ok := parseIDParam(ctx, "eventId")
	if !ok {
		return
	}

	if err := c.compilationService.RemoveEvent(ctx, compilationID, eventID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// PinCompilation handles pinning or unpinning a compilation
// @Summary Pin or unpin a compilation
// @Tags compilations
// @Produce json
// @Param compId path int true "Compilation ID"
// @Param pinned query bool true "Pinned state"
// @Success 204 "Pinned state updated"
// @Failure 404 {object} dto.APIResponse "Compilation not found"
// @Router /admin/compilations/{compId}/pin [patch]
func (c *CompilationController) PinCompilation(ctx *gin.Context) {
	compilationID, ok := parseIDParam(ctx, "compId")
	if !ok {
		return
	}

	pinned, err := strconv.ParseBool(ctx.DefaultQuery("pinned", "true"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "pinned must be a boolean")))
		return
	}

	if err := c.compilationService.SetPinned(ctx, compilationID, pinned); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// GetCompilationByID handles the public single-compilation view
// @Summary Get compilation by ID
// @Tags compilations
// @Produce json
// @Param compId path int true "Compilation ID"
// @Success 200 {object} dto.APIResponse{data=dto.CompilationResponse} "Compilation retrieved successfully"
// @Failure 404 {object} dto.APIResponse "Compilation not found"
// @Router /compilations/{compId} [get]
func (c *CompilationController) GetCompilationByID(ctx *gin.Context) {
	compilationID, ok := parseIDParam(ctx, "compId")
	if !ok {
		return
	}

	compilation, err := c.compilationService.GetByID(ctx, compilationID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(compilation))
}

// ListCompilations handles the public compilation listing
// @Summary List compilations
// @Tags compilations
// @Produce json
// @Param pinned query bool false "Pinned filter"
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size (default: 10, max: 100)" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.CompilationListResponse} "Compilations retrieved successfully"
// @Router /compilations [get]
func (c *CompilationController) ListCompilations(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	var pinned *bool
	if pinnedStr := ctx.Query("pinned"); pinnedStr != "" {
		value, err := strconv.ParseBool(pinnedStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "pinned must be a boolean")))
			return
		}
		pinned = &value
	}

	compilations, err := c.compilationService.List(ctx, pinned, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(compilations))
}
