package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/primal-host/participation/internal/config"
	"github.com/primal-host/participation/internal/store"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RateResponse is the body of both participation endpoints.
type RateResponse struct {
	ParticipationRate float64 `json:"participation_rate"`
}

func (s *Server) routes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.echo.GET("/network/participation_rate", s.handleNetworkRate)
	s.echo.GET("/validator/:id/participation_rate", s.handleValidatorRate)
}

func (s *Server) handleHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		slog.Warn("health check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": config.Version,
	})
}

func (s *Server) handleNetworkRate(c echo.Context) error {
	rate, err := s.rates.NetworkRate(c.Request().Context())
	if err != nil {
		slog.Error("network participation rate", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "store error"})
	}
	return c.JSON(http.StatusOK, RateResponse{ParticipationRate: rate})
}

func (s *Server) handleValidatorRate(c echo.Context) error {
	id64, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	id := int32(id64)

	rate, err := s.rates.ValidatorRate(c.Request().Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]any{"error": "validator not found", "id": id})
	case err != nil:
		slog.Error("validator participation rate", "error", err, "id", id)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "store error"})
	}
	return c.JSON(http.StatusOK, RateResponse{ParticipationRate: rate})
}
