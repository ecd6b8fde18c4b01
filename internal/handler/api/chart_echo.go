package api

import (
	"context"

	"btcmag7/internal/domain/models"
	"btcmag7/internal/service/ratelimit"
	xhttp "btcmag7/pkg/http"
	xlogger "btcmag7/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ChartService is the use case behind the chart endpoints.
type ChartService interface {
	Build(ctx context.Context) (*models.ChartResponse, error)
	InvalidateSnapshot(ctx context.Context) error
	SnapshotExists(ctx context.Context) (bool, error)
}

// ChartEchoHandler serves the chart payload and snapshot administration.
type ChartEchoHandler struct {
	logger  *xlogger.Logger
	chart   ChartService
	limiter *ratelimit.Limiter
}

func NewChartEchoHandler(logger *xlogger.Logger, chart ChartService) *ChartEchoHandler {
	return &ChartEchoHandler{logger: logger, chart: chart}
}

// SetLimiter enables per-client throttling of /chart-data.
func (h *ChartEchoHandler) SetLimiter(l *ratelimit.Limiter) { h.limiter = l }

func (h *ChartEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/chart-data", h.ChartData)
	e.GET("/health", h.Health)
	e.DELETE("/admin/snapshot", h.InvalidateSnapshot)
}

// ChartData recomputes the index and returns it. Any failure yields {"error"}.
func (h *ChartEchoHandler) ChartData(c echo.Context) error {
	if h.limiter != nil && !h.limiter.Allow(c.RealIP()) {
		return xhttp.TooManyRequestsResponse(c)
	}

	resp, err := h.chart.Build(c.Request().Context())
	if err != nil {
		h.logger.Error("chart-data failed",
			xlogger.String("kind", models.ErrorKind(err)),
			xlogger.Error(err),
		)
		return xhttp.ErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.SuccessResponse(c, resp)
}

func (h *ChartEchoHandler) Health(c echo.Context) error {
	ok, err := h.chart.SnapshotExists(c.Request().Context())
	if err != nil {
		h.logger.Warn("snapshot probe failed", xlogger.Error(err))
	}
	return xhttp.SuccessResponse(c, models.HealthResponse{Status: "ok", Snapshot: ok})
}

func (h *ChartEchoHandler) InvalidateSnapshot(c echo.Context) error {
	if err := h.chart.InvalidateSnapshot(c.Request().Context()); err != nil {
		h.logger.Error("snapshot invalidation failed", xlogger.Error(err))
		return xhttp.ErrorResponse(c, err)
	}
	return xhttp.NoContentResponse(c)
}
