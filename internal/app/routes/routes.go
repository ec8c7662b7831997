package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eborodin/eventum/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	eventController *controllers.EventController,
	requestController *controllers.RequestController,
	categoryController *controllers.CategoryController,
	userController *controllers.UserController,
	compilationController *controllers.CompilationController,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	events := v1.Group("/events")
	{
		events.GET("", eventController.SearchEvents)
		events.GET("/:id", eventController.GetPublishedEvent)
	}

	categories := v1.Group("/categories")
	{
		categories.GET("", categoryController.ListCategories)
		categories.GET("/:catId", categoryController.GetCategoryByID)
	}

	compilations := v1.Group("/compilations")
	{
		compilations.GET("", compilationController.ListCompilations)
		compilations.GET("/:compId", compilationController.GetCompilationByID)
	}

	// --- Private routes (caller identified by the userId path parameter) ---
	users := v1.Group("/users/:userId")
	{
		users.GET("/events", eventController.ListOwnEvents)
		users.POST("/events", eventController.CreateEvent)
		users.GET("/events/:eventId", eventController.GetOwnEvent)
		users.PATCH("/events/:eventId", eventController.UpdateEvent)
		users.POST("/events/:eventId/cancel", eventController.CancelEvent)

		users.GET("/events/:eventId/requests", requestController.ListEventRequests)
		users.PATCH("/events/:eventId/requests/:reqId/confirm", requestController.ConfirmRequest)
		users.PATCH("/events/:eventId/requests/:reqId/reject", requestController.RejectRequest)

		users.GET("/requests", requestController.ListOwnRequests)
		users.POST("/requests", requestController.CreateRequest)
		users.PATCH("/requests/:requestId/cancel", requestController.CancelRequest)
	}

	// --- Admin routes ---
	admin := v1.Group("/admin")
	{
		admin.POST("/events/:eventId/publish", eventController.PublishEvent)
		admin.POST("/events/:eventId/reject", eventController.RejectEvent)

		admin.POST("/categories", categoryController.CreateCategory)
		admin.PATCH("/categories/:catId", categoryController.UpdateCategory)
		admin.DELETE("/categories/:catId", categoryController.DeleteCategory)

		admin.GET("/users", userController.ListUsers)
		admin.POST("/users", userController.CreateUser)
		admin.DELETE("/users/:userId", userController.DeleteUser)

		admin.POST("/compilations", compilationController.CreateCompilation)
		admin.DELETE("/compilations/:compId", compilationController.DeleteCompilation)
		admin.PATCH("/compilations/:compId/pin", compilationController.PinCompilation)
		admin.PATCH("/compilations/:compId/events/:eventId", compilationController.AddEventToCompilation)
		admin.DELETE("/compilations/:compId/events/:eventId", compilationController.RemoveEventFromCompilation)
	}
}
