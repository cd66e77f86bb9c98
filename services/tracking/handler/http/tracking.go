package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sparkclean/cleantrack/internal/pkg/constants"
	"github.com/sparkclean/cleantrack/internal/pkg/logger"
	"github.com/sparkclean/cleantrack/internal/pkg/models"
	"github.com/sparkclean/cleantrack/internal/utils"
	"github.com/sparkclean/cleantrack/services/tracking"
)

const refreshFailedMessage = "Unable to refresh tracking right now. Please try again."

// TrackingHandler exposes the track view runtime over HTTP
type TrackingHandler struct {
	trackingUC tracking.TrackingUC
}

// NewTrackingHandler creates a new tracking handler
func NewTrackingHandler(trackingUC tracking.TrackingUC) *TrackingHandler {
	return &TrackingHandler{
		trackingUC: trackingUC,
	}
}

// GetState returns the current tracking state
func (h *TrackingHandler) GetState(c echo.Context) error {
	return utils.SuccessResponse(c, http.StatusOK, "Tracking state retrieved", h.trackingUC.State())
}

// Refresh handles the manual pull-to-refresh. A failure is answered with the
// dismissible notice and leaves the tracking state untouched.
func (h *TrackingHandler) Refresh(c echo.Context) error {
	state, err := h.trackingUC.Refresh(c.Request().Context())
	if err != nil {
		var notice *models.Notice
		if errors.As(err, &notice) {
			return utils.ErrorResponseHandler(c, http.StatusBadGateway, notice.Code, notice.Message)
		}
		logger.Error("Tracking refresh failed", logger.Err(err))
		return utils.ErrorResponseHandler(c, http.StatusBadGateway, constants.ErrorRefreshFailed, refreshFailedMessage)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Tracking refreshed", state)
}

// Mount starts the track view. The initial load failing does not fail the request;
// the periodic reload keeps trying.
func (h *TrackingHandler) Mount(c echo.Context) error {
	if err := h.trackingUC.Mount(c.Request().Context()); err != nil {
		logger.Warn("Initial booking load failed on mount",
			logger.Err(err),
			logger.String("endpoint", "Mount"),
		)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Tracking view mounted", h.trackingUC.State())
}

// Dismiss stops the track view and releases the live session
func (h *TrackingHandler) Dismiss(c echo.Context) error {
	h.trackingUC.Dismiss()
	return utils.SuccessResponse(c, http.StatusOK, "Tracking view dismissed", h.trackingUC.State())
}
