package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sparkclean/cleantrack/internal/pkg/constants"
	httpclient "github.com/sparkclean/cleantrack/internal/pkg/http"
	"github.com/sparkclean/cleantrack/internal/pkg/logger"
	"github.com/sparkclean/cleantrack/internal/pkg/models"
	"github.com/sparkclean/cleantrack/internal/utils"
	"github.com/sparkclean/cleantrack/services/tracking"
)

// BookingHandler handles HTTP requests for booking operations
type BookingHandler struct {
	bookingUC tracking.BookingUC
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingUC tracking.BookingUC) *BookingHandler {
	return &BookingHandler{
		bookingUC: bookingUC,
	}
}

// ListBookings returns the customer's bookings
func (h *BookingHandler) ListBookings(c echo.Context) error {
	bookings, err := h.bookingUC.ListBookings(c.Request().Context())
	if err != nil {
		return upstreamError(c, err, "Failed to load bookings")
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}

	return utils.SuccessResponse(c, http.StatusOK, "Bookings retrieved successfully", bookings)
}

// GetBooking returns one booking
func (h *BookingHandler) GetBooking(c echo.Context) error {
	bookingID := c.Param("id")
	if bookingID == "" {
		return utils.BadRequestResponse(c, constants.ErrorValidationFailed, "Invalid booking ID")
	}

	booking, err := h.bookingUC.GetBooking(c.Request().Context(), bookingID)
	if err != nil {
		return upstreamError(c, err, "Failed to retrieve booking")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Booking retrieved successfully", booking)
}

// CreateBooking handles booking creation requests
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req models.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn("Invalid request payload for booking creation",
			logger.Err(err),
			logger.String("endpoint", "CreateBooking"),
		)
		return utils.BadRequestResponse(c, constants.ErrorInvalidFormat, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return utils.BadRequestResponse(c, constants.ErrorValidationFailed, err.Error())
	}

	booking, err := h.bookingUC.CreateBooking(c.Request().Context(), &req)
	if err != nil {
		return upstreamError(c, err, "Failed to create booking")
	}

	return utils.SuccessResponse(c, http.StatusCreated, "Booking created successfully", booking)
}

// CancelBooking cancels a booking
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	bookingID := c.Param("id")
	if bookingID == "" {
		return utils.BadRequestResponse(c, constants.ErrorValidationFailed, "Invalid booking ID")
	}

	resp, err := h.bookingUC.CancelBooking(c.Request().Context(), bookingID)
	if err != nil {
		return upstreamError(c, err, "Failed to cancel booking")
	}

	return utils.SuccessResponse(c, http.StatusOK, resp.Message, resp)
}

// UpdateBooking applies a partial booking update
func (h *BookingHandler) UpdateBooking(c echo.Context) error {
	bookingID := c.Param("id")
	if bookingID == "" {
		return utils.BadRequestResponse(c, constants.ErrorValidationFailed, "Invalid booking ID")
	}

	var req models.UpdateBookingRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, constants.ErrorInvalidFormat, "Invalid request payload")
	}

	booking, err := h.bookingUC.UpdateBooking(c.Request().Context(), bookingID, &req)
	if err != nil {
		return upstreamError(c, err, "Failed to update booking")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Booking updated successfully", booking)
}

// FindCleaners searches cleaners near a location
func (h *BookingHandler) FindCleaners(c echo.Context) error {
	var req models.FindCleanersRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, constants.ErrorInvalidFormat, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return utils.BadRequestResponse(c, constants.ErrorValidationFailed, err.Error())
	}

	resp, err := h.bookingUC.FindCleaners(c.Request().Context(), &req)
	if err != nil {
		return upstreamError(c, err, "Failed to find cleaners")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Cleaners retrieved successfully", resp)
}

// AssignCleaner assigns the chosen cleaner to the booking in the path
func (h *BookingHandler) AssignCleaner(c echo.Context) error {
	var req models.AssignCleanerRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, constants.ErrorInvalidFormat, "Invalid request payload")
	}
	if req.BookingID == "" {
		return utils.BadRequestResponse(c, constants.ErrorValidationFailed, "Invalid booking ID")
	}
	if err := c.Validate(&req); err != nil {
		return utils.BadRequestResponse(c, constants.ErrorValidationFailed, err.Error())
	}

	booking, err := h.bookingUC.AssignCleaner(c.Request().Context(), &req)
	if err != nil {
		return upstreamError(c, err, "Failed to assign cleaner")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Cleaner assigned successfully", booking)
}

// upstreamError maps a booking API failure onto the response. Client errors
// keep their status and message; 401 and everything else is a 502.
func upstreamError(c echo.Context, err error, fallback string) error {
	var apiErr *httpclient.APIError
	if errors.As(err, &apiErr) {
		if apiErr.NotFound() {
			return utils.ErrorResponseHandler(c, http.StatusNotFound, constants.ErrorBookingNotFound,
				httpclient.UserMessage(err, "Booking not found"))
		}
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 && !errors.Is(err, httpclient.ErrUnauthorized) {
			return utils.ErrorResponseHandler(c, apiErr.StatusCode, constants.ErrorUpstreamFailed,
				httpclient.UserMessage(err, fallback))
		}
	}

	logger.Error(fallback, logger.Err(err), logger.String("path", c.Path()))
	return utils.ErrorResponseHandler(c, http.StatusBadGateway, constants.ErrorUpstreamFailed,
		httpclient.UserMessage(err, fallback))
}
