package http

import (
	"context"
	"errors"
	"net/http"

	"btcmag7/internal/domain/models"
)

// StatusForError maps a pipeline failure to an HTTP status.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, models.ErrSourceUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
