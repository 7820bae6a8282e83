// Package service implements the request-translation and relay pipeline:
// token decode, URL validation, origin header policy, and response header
// mapping.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"vidgate/internal/config"
	"vidgate/internal/model"
	"vidgate/internal/token"
)

// FailureKind identifies which pipeline stage rejected a request.
type FailureKind string

// Pipeline failure kinds, in stage order.
const (
	FailureMissingToken       FailureKind = "missing_token"
	FailureInvalidToken       FailureKind = "invalid_token"
	FailureInvalidURL         FailureKind = "invalid_url"
	FailureUnauthorizedDomain FailureKind = "unauthorized_domain"
	FailureOriginUnreachable  FailureKind = "origin_unreachable"
)

// RelayError is a typed pipeline failure. Message is safe to send to the
// client; Err (if any) carries the underlying cause and may reference the
// decoded origin URL, so it must be redacted before leaving the process.
type RelayError struct {
	Kind    FailureKind
	Status  int
	Message string
	Err     error
}

func (e *RelayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *RelayError) Unwrap() error { return e.Err }

// Origin request header policy. The outbound request carries exactly these
// headers; nothing else from the inbound request is forwarded, so cookies and
// auth headers never reach the origin.
const (
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptLanguage = "en-US,en;q=0.9"
)

// Response header defaults and overrides.
const (
	defaultContentType  = "video/mp4"
	defaultAcceptRanges = "bytes"
	cacheControl        = "public, max-age=3600"
)

// ApplyCORS sets the CORS headers shared by preflight and relay responses.
func ApplyCORS(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Range, Content-Type")
}

// OriginFetcher issues a request to an origin and returns its response.
// The concrete implementation lives in the client package; tests substitute
// an in-memory fetcher.
type OriginFetcher interface {
	Fetch(ctx context.Context, method, originURL string, header http.Header) (*model.RelayResponse, error)
}

// Pipeline resolves a relay request into an origin response.
type Pipeline struct {
	fetcher OriginFetcher
	cfg     *config.Config
	logger  *slog.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(f OriginFetcher, cfg *config.Config, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		fetcher: f,
		cfg:     cfg,
		logger:  logger.With("component", "pipeline"),
	}
}

// Relay runs the full pipeline for one request: decode the vid token,
// validate the decoded URL against scheme and allowlist, fetch from the
// origin with the fixed header policy, and map the response headers.
// The caller owns the response body on success.
func (p *Pipeline) Relay(rr *model.RelayRequest) (*model.RelayResponse, *RelayError) {
	originURL, rerr := p.resolveOrigin(rr.Query)
	if rerr != nil {
		return nil, rerr
	}

	resp, err := p.fetcher.Fetch(rr.Ctx, rr.Method, originURL, buildOriginHeader(rr.Header))
	if err != nil {
		return nil, &RelayError{
			Kind:    FailureOriginUnreachable,
			Status:  http.StatusInternalServerError,
			Message: "Server error",
			Err:     err,
		}
	}

	resp.Header = buildResponseHeader(resp.Header)
	return resp, nil
}

// resolveOrigin turns the vid query parameter into a validated origin URL.
func (p *Pipeline) resolveOrigin(query url.Values) (string, *RelayError) {
	tok := query.Get("vid")
	if tok == "" {
		return "", &RelayError{
			Kind:    FailureMissingToken,
			Status:  http.StatusBadRequest,
			Message: "Missing video ID",
		}
	}

	originURL, err := token.Decode(tok)
	if err != nil {
		return "", &RelayError{
			Kind:    FailureInvalidToken,
			Status:  http.StatusBadRequest,
			Message: "Invalid video ID",
			Err:     err,
		}
	}

	if rerr := p.validateOrigin(originURL); rerr != nil {
		return "", rerr
	}
	return originURL, nil
}

// validateOrigin checks scheme and allowlist. Decoding success does not imply
// a parseable URL, so parse failures are rejected here rather than surfacing
// later as generic 500s.
func (p *Pipeline) validateOrigin(originURL string) *RelayError {
	if !strings.HasPrefix(originURL, "http://") && !strings.HasPrefix(originURL, "https://") {
		return &RelayError{
			Kind:    FailureInvalidURL,
			Status:  http.StatusBadRequest,
			Message: "Invalid URL",
		}
	}

	u, err := url.Parse(originURL)
	if err != nil {
		return &RelayError{
			Kind:    FailureInvalidURL,
			Status:  http.StatusBadRequest,
			Message: "Invalid URL",
			Err:     err,
		}
	}

	if !p.authorize(u.Hostname()) {
		return &RelayError{
			Kind:    FailureUnauthorizedDomain,
			Status:  http.StatusForbidden,
			Message: "Unauthorized domain",
		}
	}
	return nil
}

// authorize applies the substring allowlist. An empty allowlist permits any
// host. Substring semantics are intentional (see config.OriginConfig); do not
// tighten to suffix matching here without changing the documented policy.
func (p *Pipeline) authorize(host string) bool {
	if len(p.cfg.Origin.AllowedHosts) == 0 {
		return true
	}
	for _, allowed := range p.cfg.Origin.AllowedHosts {
		if strings.Contains(host, allowed) {
			return true
		}
	}
	return false
}

// buildOriginHeader constructs the fixed outbound header set. Each entry is
// independent of any other inbound header.
func buildOriginHeader(src http.Header) http.Header {
	dst := make(http.Header)
	dst.Set("User-Agent", userAgent)
	if accept := src.Get("Accept"); accept != "" {
		dst.Set("Accept", accept)
	} else {
		dst.Set("Accept", "*/*")
	}
	dst.Set("Accept-Language", acceptLanguage)
	if rng := src.Get("Range"); rng != "" {
		dst.Set("Range", rng)
	}
	return dst
}

// buildResponseHeader maps origin response headers onto the client response.
// Content-Length and Content-Range are forwarded only when the origin
// supplied them; fabricating either would break range handling, and a missing
// Content-Length must stay missing (chunked transfer).
func buildResponseHeader(origin http.Header) http.Header {
	dst := make(http.Header)

	if ct := origin.Get("Content-Type"); ct != "" {
		dst.Set("Content-Type", ct)
	} else {
		dst.Set("Content-Type", defaultContentType)
	}
	if ar := origin.Get("Accept-Ranges"); ar != "" {
		dst.Set("Accept-Ranges", ar)
	} else {
		dst.Set("Accept-Ranges", defaultAcceptRanges)
	}
	if cl := origin.Get("Content-Length"); cl != "" {
		dst.Set("Content-Length", cl)
	}
	if cr := origin.Get("Content-Range"); cr != "" {
		dst.Set("Content-Range", cr)
	}

	ApplyCORS(dst)

	// Fixed caching policy, independent of the origin's own directives.
	dst.Set("Cache-Control", cacheControl)

	return dst
}
