// Package server exposes the layout pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/c5kyx9vb72-sketch/Layout-App/internal/metrics"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/pipeline"
)

// Server is the HTTP front end of the pipeline.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	logger *log.Logger
	echo   *echo.Echo
}

// New creates a server. The runner's hooks are pointed at the metrics
// collectors.
func New(cfg Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	runner.Hooks = metrics.Hooks{}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{StackSize: 4 << 10}))
	e.Use(middleware.BodyLimit("32M"))
	e.Use(requestMetrics(logger))

	s := &Server{cfg: cfg, runner: runner, logger: logger, echo: e}
	s.RegisterRoutes(e)
	return s
}

// Echo returns the underlying router.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// RegisterRoutes mounts every endpoint on e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := e.Group("/api")
	api.GET("/catalog", s.handleCatalog)
	api.POST("/generate", s.handleGenerate)
	api.POST("/validate", s.handleValidate)
	api.POST("/heat", s.handleHeat)
	api.POST("/snap", s.handleSnap)
	api.POST("/import", s.handleImport)
	api.POST("/export", s.handleExport)
	api.POST("/scene", s.handleScene)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.logger.Info("plantlayout server starting", "addr", "http://localhost"+addr)

	errc := make(chan error, 1)
	go func() {
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return s.echo.Shutdown(shutdownCtx)
}

func requestMetrics(logger *log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			route := c.Path()
			status := c.Response().Status
			if err != nil {
				status = toAPIError(err).Status
			}
			elapsed := time.Since(start)
			metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
			metrics.RequestDurationMs.WithLabelValues(route).Observe(float64(elapsed.Microseconds()) / 1000)
			logger.Debug("request", "method", c.Request().Method, "route", route, "status", status, "duration", elapsed)
			return err
		}
	}
}
