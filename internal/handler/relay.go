package handler

import (
	"io"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"

	"vidgate/internal/config"
	"vidgate/internal/metrics"
	"vidgate/internal/model"
	"vidgate/internal/service"
)

// originURLPattern matches http(s) URLs embedded in error messages. Upstream
// errors (url.Error and friends) quote the full origin URL, which must never
// leave the process in logs or response bodies.
var originURLPattern = regexp.MustCompile(`https?://[^\s"']+`)

// RelayHandler serves the relay entry point and the CORS preflight.
type RelayHandler struct {
	pipeline *service.Pipeline
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewRelayHandler creates a RelayHandler. The metrics parameter is optional;
// pass nil to disable failure counters.
func NewRelayHandler(p *service.Pipeline, cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *RelayHandler {
	return &RelayHandler{
		pipeline: p,
		cfg:      cfg,
		logger:   logger.With("component", "relay_handler"),
		metrics:  m,
	}
}

// Handle resolves the vid token and streams the origin response back.
func (h *RelayHandler) Handle(c echo.Context) error {
	req := c.Request()

	rr := &model.RelayRequest{
		Ctx:    req.Context(),
		Method: req.Method,
		Query:  req.URL.Query(),
		Header: req.Header,
	}

	resp, rerr := h.pipeline.Relay(rr)
	if rerr != nil {
		return h.respondError(c, rerr)
	}
	defer func() { _ = resp.Body.Close() }()

	for key, vals := range resp.Header {
		for _, v := range vals {
			c.Response().Header().Add(key, v)
		}
	}

	c.Response().WriteHeader(resp.StatusCode)

	// Stream the origin body directly to the client; nothing is buffered, so
	// memory use stays constant regardless of media size. If io.Copy fails
	// mid-stream (client disconnect, origin drop), the status code has
	// already been sent and the client receives a truncated body with the
	// original status. The request context cancels the origin fetch when the
	// client goes away, releasing the upstream connection.
	if _, err := io.Copy(c.Response(), resp.Body); err != nil {
		h.logger.Error("streaming origin body",
			"err", redactOriginURL(err.Error()),
			"method", req.Method,
		)
	}

	return nil
}

// Preflight short-circuits CORS preflight requests. No outbound I/O happens
// here.
func (h *RelayHandler) Preflight(c echo.Context) error {
	service.ApplyCORS(c.Response().Header())
	return c.NoContent(http.StatusOK)
}

func (h *RelayHandler) respondError(c echo.Context, rerr *service.RelayError) error {
	h.logger.Warn("relay failed",
		"kind", rerr.Kind,
		"status", rerr.Status,
		"err", sanitizeError(rerr),
	)

	if h.metrics != nil {
		h.metrics.RelayFailures.WithLabelValues(string(rerr.Kind)).Inc()
	}

	body := map[string]string{"error": rerr.Message}
	if rerr.Kind == service.FailureOriginUnreachable && h.cfg.Server.ExposeErrorDetail && rerr.Err != nil {
		body["message"] = redactOriginURL(rerr.Err.Error())
	}

	service.ApplyCORS(c.Response().Header())
	return c.JSON(rerr.Status, body)
}

// sanitizeError returns a log-safe rendering of a relay error.
func sanitizeError(rerr *service.RelayError) string {
	if rerr.Err == nil {
		return string(rerr.Kind)
	}
	return redactOriginURL(rerr.Error())
}

// redactOriginURL strips http(s) URLs from a message.
func redactOriginURL(msg string) string {
	return originURLPattern.ReplaceAllString(msg, "[origin]")
}
