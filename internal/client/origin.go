// Package client provides the outbound HTTP client for origin fetches.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"vidgate/internal/config"
	"vidgate/internal/metrics"
	"vidgate/internal/model"
)

// OriginClient fetches media resources from origin servers. Redirects are
// followed (http.Client default), matching fetch semantics.
type OriginClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewOriginClient creates an OriginClient with connection pooling.
// A zero origin.timeout_seconds leaves the client without a timeout so long
// media streams are never cut mid-transfer.
// The metrics parameter is optional; pass nil to disable origin metrics recording.
func NewOriginClient(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *OriginClient {
	transport := &http.Transport{
		MaxIdleConns:        cfg.Origin.IdleConnections,
		MaxIdleConnsPerHost: cfg.Origin.IdleConnections,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	return &OriginClient{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.Origin.TimeoutSeconds) * time.Second,
		},
		logger:  logger.With("component", "origin_client"),
		metrics: m,
	}
}

// Fetch executes a request against the origin and returns the raw response.
// The caller is responsible for closing the response body. The provided
// context controls the lifetime of the origin request: when it is canceled
// (e.g. client disconnects mid-stream), the origin request and its body are
// released.
//
// The origin URL is deliberately absent from log output.
func (c *OriginClient) Fetch(ctx context.Context, method, originURL string, header http.Header) (*model.RelayResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, originURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build origin request: %w", err)
	}
	req.Header = header

	c.logger.Debug("origin request", "method", method)

	start := time.Now()
	resp, err := c.httpClient.Do(req) //nolint:bodyclose // body ownership transfers to caller via RelayResponse
	duration := time.Since(start).Seconds()

	m := metrics.NormalizeMethod(method)

	if err != nil {
		if c.metrics != nil {
			c.metrics.OriginDuration.WithLabelValues(m).Observe(duration)
		}
		return nil, fmt.Errorf("origin request: %w", err)
	}

	if c.metrics != nil {
		status := strconv.Itoa(resp.StatusCode)
		c.metrics.OriginDuration.WithLabelValues(m).Observe(duration)
		c.metrics.OriginResponses.WithLabelValues(m, status).Inc()
	}

	return &model.RelayResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       resp.Body,
	}, nil
}
