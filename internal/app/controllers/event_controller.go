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

// EventController handles event related operations
type EventController struct {
	eventService services.EventService
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService) *EventController {
	return &EventController{eventService: eventService}
}

// CreateEvent handles owner-side event creation
// @Summary Create a new event
// @Description Creates an event in the pending state on behalf of the user
// @Tags events
// @Accept json
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param request body dto.NewEventRequest true "New event request"
// @Success 201 {object} dto.APIResponse{data=dto.EventResponse} "Event created successfully"
// @Failure 400 {object} dto.APIResponse "Invalid request parameters"
// @Failure 404 {object} dto.APIResponse "User or category not found"
// @Router /users/{userId}/events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}

	var req dto.NewEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))
		return
	}

	event, err := c.eventService.Create(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(event))
}

// UpdateEvent handles owner-side editing of an unpublished event
// @Summary Update an event
// @Description Applies a partial update to an unpublished event; editing a rejected event sends it back to moderation
// @Tags events
// @Accept json
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param eventId path int true "Event ID"
// @Param request body dto.UpdateEventRequest true "Update event request"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Event updated successfully"
// @Failure 404 {object} dto.APIResponse "Event not found"
// @Failure 409 {object} dto.APIResponse "Event state forbids editing"
// @Router /users/{userId}/events/{eventId} [patch]
func (c *EventController) UpdateEvent(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}
	eventID, ok := parseIDParam(ctx, "eventId")
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))
		return
	}

	event, err := c.eventService.Update(ctx, userID, eventID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event))
}

// CancelEvent handles owner-side cancellation of a pending event
// @Summary Cancel an event
// @Description Cancels a pending event
// @Tags events
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param eventId path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Event canceled successfully"
// @Failure 404 {object} dto.APIResponse "Event not found"
// @Failure 409 {object} dto.APIResponse "Event is not pending"
// @Router /users/{userId}/events/{eventId}/cancel [post]
func (c *EventController) CancelEvent(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}
	eventID, ok := parseIDParam(ctx, "eventId")
	if !ok {
		return
	}

	event, err := c.eventService.Cancel(ctx, userID, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event))
}

// GetOwnEvent handles retrieving one of the user's own events
// @Summary Get own event
// @Tags events
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param eventId path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Event retrieved successfully"
// @Failure 404 {object} dto.APIResponse "Event not found"
// @Router /users/{userId}/events/{eventId} [get]
func (c *EventController) GetOwnEvent(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}
	eventID, ok := parseIDParam(ctx, "eventId")
	if !ok {
		return
	}

	event, err := c.eventService.GetOwn(ctx, userID, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event))
}

// ListOwnEvents handles listing the user's own events
// @Summary List own events
// @Tags events
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size (default: 10, max: 100)" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.EventListResponse} "Events retrieved successfully"
// @Router /users/{userId}/events [get]
func (c *EventController) ListOwnEvents(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	events, err := c.eventService.ListOwn(ctx, userID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(events))
}

// PublishEvent handles the moderator publish transition
// @Summary Publish an event
// @Description Publishes a pending or re-moderation event whose date is far enough in the future
// @Tags admin
// @Produce json
// @Param eventId path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Event published successfully"
// @Failure 404 {object} dto.APIResponse "Event not found"
// @Failure 409 {object} dto.APIResponse "Event state or date forbids publication"
// @Router /admin/events/{eventId}/publish [post]
func (c *EventController) PublishEvent(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "eventId")
	if !ok {
		return
	}

	event, err := c.eventService.Publish(ctx, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event))
}

// RejectEvent handles the moderator reject transition
// @Summary Reject an event
// @Description Rejects an unpublished event and records the moderation comment
// @Tags admin
// @Accept json
// @Produce json
// @Param eventId path int true "Event ID"
// @Param request body dto.RejectEventRequest true "Rejection comment"
// @Success 200 {object} dto.APIResponse{data=dto.EventModerationResponse} "Event rejected successfully"
// @Failure 404 {object} dto.APIResponse "Event not found"
// @Failure 409 {object} dto.APIResponse "Published events cannot be rejected"
// @Router /admin/events/{eventId}/reject [post]
func (c *EventController) RejectEvent(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "eventId")
	if !ok {
		return
	}

	var req dto.RejectEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))
		return
	}

	result, err := c.eventService.Reject(ctx, eventID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// GetPublishedEvent handles the public single-event view
// @Summary Get published event
// @Description Retrieves a published event and records the visit
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Event retrieved successfully"
// @Failure 404 {object} dto.APIResponse "Event not found or not published"
// @Router /events/{id} [get]
func (c *EventController) GetPublishedEvent(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	event, err := c.eventService.GetPublished(ctx, eventID, ctx.ClientIP())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event))
}

// SearchEvents handles the public event search
// @Summary Search published events
// @Tags events
// @Produce json
// @Param text query string false "Search in annotation and description"
// @Param categories query []int false "Category IDs"
// @Param paid query bool false "Paid filter"
// @Param rangeStart query string false "Earliest event date (YYYY-MM-DD HH:MM:SS)"
// @Param rangeEnd query string false "Latest event date (YYYY-MM-DD HH:MM:SS)"
// @Param onlyAvailable query bool false "Only events with free slots"
// @Param sort query string false "EVENT_DATE or VIEWS"
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size (default: 10, max: 100)" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.EventListResponse} "Events retrieved successfully"
// @Router /events [get]
func (c *EventController) SearchEvents(ctx *gin.Context) {
	filter, ok := parseEventFilter(ctx)
	if !ok {
		return
	}

	events, err := c.eventService.Search(ctx, filter, ctx.Request.URL.Path, ctx.ClientIP())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(events))
}

func parseEventFilter(ctx *gin.Context) (*dto.EventFilterRequest, bool) {
	filter := &dto.EventFilterRequest{Sort: dto.EventSortEventDate}
	filter.Page, filter.PageSize = helpers.ParsePaginationParams(ctx)

	if text := ctx.Query("text"); text != "" {
		filter.Text = &text
	}

	categories, ok := parseIDList(ctx, "categories")
	if !ok {
		return nil, false
	}
	filter.Categories = categories

	if paidStr := ctx.Query("paid"); paidStr != "" {
		paid, err := strconv.ParseBool(paidStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "paid must be a boolean")))
			return nil, false
		}
		filter.Paid = &paid
	}

	if startStr := ctx.Query("rangeStart"); startStr != "" {
		start, err := helpers.ParseDateTime(startStr)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return nil, false
		}
		filter.RangeStart = &start
	}
	if endStr := ctx.Query("rangeEnd"); endStr != "" {
		end, err := helpers.ParseDateTime(endStr)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return nil, false
		}
		filter.RangeEnd = &end
	}

	filter.OnlyAvailable = ctx.Query("onlyAvailable") == "true"

	if sort := ctx.Query("sort"); sort != "" {
		if sort != dto.EventSortEventDate && sort != dto.EventSortViews {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "sort must be EVENT_DATE or VIEWS")))
			return nil, false
		}
		filter.Sort = sort
	}

	return filter, true
}
