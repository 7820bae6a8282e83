package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes wires all route handlers onto the Echo instance.
// OPTIONS is registered on every path so preflight works regardless of what
// path a player library probes.
func RegisterRoutes(e *echo.Echo, relay *RelayHandler, health *HealthHandler) {
	e.GET("/healthz", health.Healthz)
	e.GET("/vidgate/status", health.Status)

	e.GET("/", relay.Handle)
	e.HEAD("/", relay.Handle)
	e.OPTIONS("/", relay.Preflight)
	e.OPTIONS("/*", relay.Preflight)
}
