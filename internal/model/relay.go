// Package model defines shared types for the relay.
package model

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// RelayRequest represents a client request to be resolved and relayed to an origin.
type RelayRequest struct {
	Ctx    context.Context
	Method string
	Query  url.Values
	Header http.Header
}

// RelayResponse represents the origin response to be streamed back to the client.
type RelayResponse struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}
