package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/primal-host/participation/internal/metrics"
)

// Rater computes participation rates.
type Rater interface {
	NetworkRate(ctx context.Context) (float64, error)
	ValidatorRate(ctx context.Context, id int32) (float64, error)
}

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the Echo instance and dependencies.
type Server struct {
	echo  *echo.Echo
	rates Rater
	store Pinger
	addr  string
}

// New creates a configured Echo server.
func New(rates Rater, store Pinger, addr string) *Server {
	s := &Server{
		echo:  echo.New(),
		rates: rates,
		store: store,
		addr:  addr,
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())
	s.echo.Use(instrument)
	s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start begins listening. Blocks until the server stops.
func (s *Server) Start() error {
	slog.Info("server listening", "addr", s.addr)
	if err := s.echo.Start(s.addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// instrument records request counts and latency per route pattern.
func instrument(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		code := strconv.Itoa(c.Response().Status)
		metrics.HTTPRequests.WithLabelValues(route, code).Inc()
		metrics.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return nil
	}
}
