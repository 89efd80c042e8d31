// Package response renders the service's two wire shapes: a plain JSON
// body for successful core operations (ingest and query return their own
// shapes directly, not wrapped), and a uniform {error, code} envelope for
// failures, built on the error taxonomy in internal/apperr.
package response

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/akave-ai/akavelog/internal/apperr"
)

// APIError is the standard error response shape.
type APIError struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	ErrorID string `json:"errorId,omitempty"`
}

// OK sends a 200 response with data, for routes whose body shape is just
// the payload (e.g. the query service's row list).
func OK(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, data)
}

// Fail renders err as the uniform error envelope. Infrastructure failures
// (5xx) get a correlatable errorId and have their cause logged
// server-side only, never serialised to the client.
func Fail(c echo.Context, err error) error {
	appErr, ok := apperr.As(err)
	if !ok {
		appErr = apperr.Wrap(apperr.CodeInternalError, "internal error", err)
	}

	status := appErr.Status()
	body := APIError{Error: appErr.Message, Code: string(appErr.Code)}

	if status >= http.StatusInternalServerError {
		errorID := uuid.New().String()
		body.ErrorID = errorID
		log.Error().Err(appErr).Str("errorId", errorID).Str("code", string(appErr.Code)).Msg("request failed")
	}

	if appErr.RetryAfter > 0 {
		c.Response().Header().Set("Retry-After", "60")
	}

	return c.JSON(status, body)
}
