package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eborodin/eventum/internal/app/models/dto"
	"github.com/eborodin/eventum/internal/app/services"
	"github.com/eborodin/eventum/internal/middleware"
	"github.com/eborodin/eventum/internal/pkg/helpers"
)

// UserController handles the admin user account operations
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService) *UserController {
	return &UserController{userService: userService}
}

// CreateUser handles registering a new account
// @Summary Register a user
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.NewUserRequest true "New user request"
// @Success 201 {object} dto.APIResponse{data=dto.UserResponse} "User created successfully"
// @Failure 409 {object} dto.APIResponse "Email already in use"
// @Router /admin/users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req dto.NewUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))
		return
	}

	user, err := c.userService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(user))
}

// ListUsers handles listing accounts, optionally filtered by IDs
// @Summary List users
// @Tags users
// @Produce json
// @Param ids query []int false "User IDs"
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size (default: 10, max: 100)" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.UserListResponse} "Users retrieved successfully"
// @Router /admin/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	ids, ok := parseIDList(ctx, "ids")
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	users, err := c.userService.List(ctx, ids, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(users))
}

// DeleteUser handles removing an account
// @Summary Delete a user
// @Tags users
// @Produce json
// @Param userId path int true "User ID"
// @Success 204 "User deleted"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Router /admin/users/{userId} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}

	if err := c.userService.Delete(ctx, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
