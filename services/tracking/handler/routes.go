package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/sparkclean/cleantrack/internal/pkg/metrics"
	"github.com/sparkclean/cleantrack/services/tracking/handler/http"
	"github.com/sparkclean/cleantrack/services/tracking/handler/websocket"
)

// Handler coordinates all protocol handlers for the tracking service
type Handler struct {
	trackingHandler *http.TrackingHandler
	bookingHandler  *http.BookingHandler
	wsHandler       *websocket.TrackingWSHandler
}

// NewHandler creates and initializes all handlers
func NewHandler(
	trackingHandler *http.TrackingHandler,
	bookingHandler *http.BookingHandler,
	wsHandler *websocket.TrackingWSHandler,
) *Handler {
	return &Handler{
		trackingHandler: trackingHandler,
		bookingHandler:  bookingHandler,
		wsHandler:       wsHandler,
	}
}

// RegisterRoutes registers all protocol handlers and their routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	// Track view lifecycle
	trackingGroup := api.Group("/tracking")
	trackingGroup.GET("", h.trackingHandler.GetState)
	trackingGroup.POST("/refresh", h.trackingHandler.Refresh)
	trackingGroup.POST("/mount", h.trackingHandler.Mount)
	trackingGroup.DELETE("", h.trackingHandler.Dismiss)

	bookingGroup := api.Group("/bookings")
	bookingGroup.GET("", h.bookingHandler.ListBookings)
	bookingGroup.POST("", h.bookingHandler.CreateBooking)
	bookingGroup.POST("/find-cleaners", h.bookingHandler.FindCleaners)
	bookingGroup.GET("/:id", h.bookingHandler.GetBooking)
	bookingGroup.PATCH("/:id", h.bookingHandler.UpdateBooking)
	bookingGroup.POST("/:id/cancel", h.bookingHandler.CancelBooking)
	bookingGroup.POST("/:id/assign-cleaner", h.bookingHandler.AssignCleaner)

	// WebSocket routes; token validation happens in the manager
	e.GET("/ws/tracking", h.wsHandler.HandleWebSocket)

	e.GET("/metrics", metrics.Handler())
}
