package api

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/metrics"
)

// ServerOptions configures NewServer.
type ServerOptions struct {
	RateLimitRPS   float64
	RateLimitBurst int
	Metrics        *metrics.Recorder
}

// NewServer builds the echo instance with middleware and routes.
func NewServer(h *Handler, log zerolog.Logger, opts ServerOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(RequestID())
	e.Use(Logger(log))
	// Metrics wraps Recovery so recovered panics are counted as 500s.
	if opts.Metrics != nil {
		e.Use(Metrics(opts.Metrics))
		e.GET("/metrics", echo.WrapHandler(opts.Metrics.Handler()))
	}
	e.Use(Recovery(log))
	if opts.RateLimitRPS > 0 {
		e.Use(RateLimit(opts.RateLimitRPS, opts.RateLimitBurst))
	}

	h.RegisterRoutes(e)
	return e
}
