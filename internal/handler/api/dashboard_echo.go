package api

import (
	"errors"

	models "NavPull/internal/domain/models"
	"NavPull/internal/usecase"
	xhttp "NavPull/pkg/http"
	xlogger "NavPull/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DashboardEchoHandler exposes the tracker's read surface over Echo.
type DashboardEchoHandler struct {
	logger  *xlogger.Logger
	tracker *usecase.Tracker
}

func NewDashboardEchoHandler(logger *xlogger.Logger, tracker *usecase.Tracker) *DashboardEchoHandler {
	return &DashboardEchoHandler{logger: logger, tracker: tracker}
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/data", h.Data)
	g.GET("/cron", h.Cron)
	g.POST("/notify", h.Notify)
	g.GET("/health", h.Health)
}

// Data serves the cache-aware snapshot; a fresh pass only runs when the
// cached result has expired.
func (h *DashboardEchoHandler) Data(c echo.Context) error {
	req := &models.DataRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	snap, err := h.tracker.GetData(c.Request().Context())
	if err != nil {
		if errors.Is(err, usecase.ErrNoHoldings) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundError("holdings not found"))
		}
		h.logger.Error("data usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	if req.Fund != "" {
		for _, cef := range snap.CEFs {
			if cef.Name == req.Fund {
				return xhttp.SuccessResponse(c, &models.Snapshot{
					LastUpdated: snap.LastUpdated,
					CEFs:        []models.FundResult{cef},
				})
			}
		}
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("unknown fund %q", req.Fund))
	}

	return xhttp.SuccessResponse(c, snap)
}

// Cron always runs a full pass so alerts are checked even when no client
// is polling /api/data. Wired to an external or internal scheduler.
func (h *DashboardEchoHandler) Cron(c echo.Context) error {
	snap, err := h.tracker.ForceCheck(c.Request().Context())
	if err != nil {
		if errors.Is(err, usecase.ErrNoHoldings) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundError("holdings not found"))
		}
		h.logger.Error("cron usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]string{
		"status": "checked",
		"time":   snap.LastUpdated,
	})
}

// Notify dispatches the manual digest to the notification channel.
func (h *DashboardEchoHandler) Notify(c echo.Context) error {
	ok, msg := h.tracker.Digest(c.Request().Context())
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"success": ok,
		"message": msg,
	})
}

// Health is a basic liveness probe.
func (h *DashboardEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
