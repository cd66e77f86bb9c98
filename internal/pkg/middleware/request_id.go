package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	httpclient "github.com/sparkclean/cleantrack/internal/pkg/http"
)

// RequestIDMiddleware assigns a request id, echoes it in the response and
// carries it on the request context so upstream API calls forward it.
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}

			c.Response().Header().Set(echo.HeaderXRequestID, requestID)
			c.Set("request_id", requestID)

			req := c.Request()
			c.SetRequest(req.WithContext(httpclient.WithRequestID(req.Context(), requestID)))

			return next(c)
		}
	}
}
