package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"productReco/business/recommender"
	"productReco/pkg/logger"
)

type errorResponse struct {
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// ErrorHandler renders every unhandled error as JSON. Internal errors are
// logged with the trace id and hidden from the client.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	}

	traceID := recommender.TraceIDFromContext(c.Request().Context())
	if code >= http.StatusInternalServerError {
		logger.Error("request failed",
			"trace_id", traceID,
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, errorResponse{Message: msg, TraceID: traceID})
	}
	if werr != nil {
		logger.Error("failed to write error response", "error", werr)
	}
}
