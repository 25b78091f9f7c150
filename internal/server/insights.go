package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/newsinsight/newsinsight/internal/store"
	"github.com/newsinsight/newsinsight/models"
)

// InsightRunner runs one verification pipeline; satisfied by the agent.
type InsightRunner interface {
	Run(ctx context.Context, topic string) models.AgentOutput
}

// TraceReader loads persisted run traces for inspection.
type TraceReader interface {
	GetTrace(ctx context.Context, runID string) (models.RunTrace, error)
}

type InsightsHandler struct {
	Runner InsightRunner
	Traces TraceReader
}

func (h *InsightsHandler) Register(g *echo.Group) {
	g.POST("", h.run)
	g.GET("/runs/:run_id", h.getTrace)
}

func (h *InsightsHandler) run(c echo.Context) error {
	var req InsightRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Topic == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "topic is required")
	}
	out := h.Runner.Run(c.Request().Context(), req.Topic)
	return c.JSON(http.StatusOK, out)
}

func (h *InsightsHandler) getTrace(c echo.Context) error {
	if h.Traces == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "trace store not configured")
	}
	trace, err := h.Traces.GetTrace(c.Request().Context(), c.Param("run_id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "run not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, trace)
}
