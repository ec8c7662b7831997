package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eborodin/eventum/internal/app/models/dto"
	"github.com/eborodin/eventum/internal/app/services"
	"github.com/eborodin/eventum/internal/middleware"
)

// RequestController handles participation request operations
type RequestController struct {
	requestService services.RequestService
}

// NewRequestController creates a new RequestController
func NewRequestController(requestService services.RequestService) *RequestController {
	return &RequestController{requestService: requestService}
}

// CreateRequest handles placing a participation request
// @Summary Request participation in an event
// @Description Places a participation request for a published event
// @Tags requests
// @Produce json
// @Param userId path int true "Requester ID"
// @Param eventId query int true "Event ID"
// @Success 201 {object} dto.APIResponse{data=dto.ParticipationRequestResponse} "Request created successfully"
// @Failure 404 {object} dto.APIResponse "Event or user not found"
// @Failure 409 {object} dto.APIResponse "Admission rules forbid the request"
// @Router /users/{userId}/requests [post]
func (c *RequestController) CreateRequest(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}

	eventID, err := strconv.ParseInt(ctx.Query("eventId"), 10, 64)
	if err != nil || eventID <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "eventId must be a positive number")))
		return
	}

	request, err := c.requestService.Create(ctx, userID, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(request))
}

// CancelRequest handles withdrawing the caller's own request
// @Summary Cancel a participation request
// @Tags requests
// @Produce json
// @Param userId path int true "Requester ID"
// @Param requestId path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=dto.ParticipationRequestResponse} "Request canceled successfully"
// @Failure 404 {object} dto.APIResponse "Request not found"
// @Failure 409 {object} dto.APIResponse "Caller is not the requester"
// @Router /users/{userId}/requests/{requestId}/cancel [patch]
func (c *RequestController) CancelRequest(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}
	requestID, ok := parseIDParam(ctx, "requestId")
	if !ok {
		return
	}

	request, err := c.requestService.Cancel(ctx, userID, requestID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(request))
}

// ListOwnRequests handles listing the caller's own requests
// @Summary List own participation requests
// @Tags requests
// @Produce json
// @Param userId path int true "Requester ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ParticipationRequestResponse} "Requests retrieved successfully"
// @Router /users/{userId}/requests [get]
func (c *RequestController) ListOwnRequests(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}

	requests, err := c.requestService.ListOwn(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(requests))
}

// ListEventRequests handles the owner's view of requests for an event
// @Summary List requests for an own event
// @Tags requests
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param eventId path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ParticipationRequestResponse} "Requests retrieved successfully"
// @Failure 404 {object} dto.APIResponse "Event not found"
// @Router /users/{userId}/events/{eventId}/requests [get]
func (c *RequestController) ListEventRequests(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}
	eventID, ok := parseIDParam(ctx, "eventId")
	if !ok {
		return
	}

	requests, err := c.requestService.ListForEvent(ctx, userID, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(requests))
}

// ConfirmRequest handles the owner-side confirmation of a pending request
// @Summary Confirm a participation request
// @Description Confirms a request against the event capacity; filling the last slot rejects the remaining pending requests
// @Tags requests
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param eventId path int true "Event ID"
// @Param reqId path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=dto.ParticipationRequestResponse} "Request confirmed successfully"
// @Failure 404 {object} dto.APIResponse "Event or request not found"
// @Failure 409 {object} dto.APIResponse "Participant limit exhausted"
// @Router /users/{userId}/events/{eventId}/requests/{reqId}/confirm [patch]
func (c *RequestController) ConfirmRequest(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}
	eventID, ok := parseIDParam(ctx, "eventId")
	if !ok {
		return
	}
	requestID, ok := parseIDParam(ctx, "reqId")
	if !ok {
		return
	}

	request, err := c.requestService.Confirm(ctx, userID, eventID, requestID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(request))
}

// RejectRequest handles the owner-side rejection of a request
// @Summary Reject a participation request
// @Tags requests
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param eventId path int true "Event ID"
// @Param reqId path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=dto.ParticipationRequestResponse} "Request rejected successfully"
// @Failure 404 {object} dto.APIResponse "Event or request not found"
// @Router /users/{userId}/events/{eventId}/requests/{reqId}/reject [patch]
func (c *RequestController) RejectRequest(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}
	eventID, ok := parseIDParam(ctx, "eventId")
	if !ok {
		return
	}
	requestID, ok := parseIDParam(ctx, "reqId")
	if !ok {
		return
	}

	request, err := c.requestService.Reject(ctx, userID, eventID, requestID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(request))
}
