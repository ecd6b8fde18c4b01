package http

import (
	"net/http"

	"btcmag7/internal/domain/models"

	"github.com/labstack/echo/v4"
)

// SuccessResponse writes data as a bare JSON body with status 200.
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// NoContentResponse writes no content response.
func NoContentResponse(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// ErrorResponse writes {"error": err.Error()} with the status mapped from err.
func ErrorResponse(c echo.Context, err error) error {
	return c.JSON(StatusForError(err), models.ErrorResponse{Error: err.Error()})
}

// TooManyRequestsResponse writes a 429 in the same error shape.
func TooManyRequestsResponse(c echo.Context) error {
	return c.JSON(http.StatusTooManyRequests, models.ErrorResponse{Error: "rate limit exceeded"})
}
