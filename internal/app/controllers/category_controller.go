package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eborodin/eventum/internal/app/models/dto"
	"github.com/eborodin/eventum/internal/app/services"
	"github.com/eborodin/eventum/internal/middleware"
	"github.com/eborodin/eventum/internal/pkg/helpers"
)

// CategoryController handles category related operations
type CategoryController struct {
	categoryService services.CategoryService
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(categoryService services.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// CreateCategory handles creating a new category
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body dto.NewCategoryRequest true "New category request"
// @Success 201 {object} dto.APIResponse{data=dto.CategoryResponse} "Category created successfully"
// @Failure 409 {object} dto.APIResponse "Category name already in use"
// @Router /admin/categories [post]
func (c *CategoryController) CreateCategory(ctx *gin.Context) {
	var req dto.NewCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))
		return
	}

	category, err := c.categoryService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(category))
}

// UpdateCategory handles renaming a category
// @Summary Rename a category
// @Tags categories
// @Accept json
// @Produce json
// @Param catId path int true "Category ID"
// @Param request body dto.NewCategoryRequest true "Category rename request"
// @Success 200 {object} dto.APIResponse{data=dto.CategoryResponse} "Category updated successfully"
// @Failure 404 {object} dto.APIResponse "Category not found"
// @Failure 409 {object} dto.APIResponse "Category name already in use"
// @Router /admin/categories/{catId} [patch]
func (c *CategoryController) UpdateCategory(ctx *gin.Context) {
	categoryID, ok := parseIDParam(ctx, "catId")
	if !ok {
		return
	}

	var req dto.NewCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))
		return
	}

	category, err := c.categoryService.Update(ctx, categoryID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(category))
}

// DeleteCategory handles removing a category
// @Summary Delete a category
// @Tags categories
// @Produce json
// @Param catId path int true "Category ID"
// @Success 204 "Category deleted"
// @Failure 404 {object} dto.APIResponse "Category not found"
// @Failure 409 {object} dto.APIResponse "Category is referenced by events"
// @Router /admin/categories/{catId} [delete]
func (c *CategoryController) DeleteCategory(ctx *gin.Context) {
	categoryID, ok := parseIDParam(ctx, "catId")
	if !ok {
		return
	}

	if err := c.categoryService.Delete(ctx, categoryID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// GetCategoryByID handles the public single-category view
// @Summary Get category by ID
// @Tags categories
// @Produce json
// @Param catId path int true "Category ID"
// @Success 200 {object} dto.APIResponse{data=dto.CategoryResponse} "Category retrieved successfully"
// @Failure 404 {object} dto.APIResponse "Category not found"
// @Router /categories/{catId} [get]
func (c *CategoryController) GetCategoryByID(ctx *gin.Context) {
	categoryID, ok := parseIDParam(ctx, "catId")
	if !ok {
		return
	}

	category, err := c.categoryService.GetByID(ctx, categoryID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(category))
}

// ListCategories handles the public category listing
// @Summary List categories
// @Tags categories
// @Produce json
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size (default: 10, max: 100)" default(10)
// @Success 200 {object} dto.APIResponse{data=[]dto.CategoryResponse} "Categories retrieved successfully"
// @Router /categories [get]
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	categories, pagination, err := c.categoryService.List(ctx, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"categories": categories,
		"pagination": pagination,
	}))
}
