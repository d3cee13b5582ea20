// Package transport is the HTTP seam used by carrier clients.
//
// Carrier code depends only on the Client interface, so any implementation
// (the net/http one here, or a scripted one in tests) can drive a carrier.
package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Request is an outbound carrier request.
type Request struct {
	Method  string
	URL     string
	Header  http.Header
	Body    []byte
	Timeout time.Duration // 0 uses the client default
}

// Response is a fully read carrier response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Text returns the response body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// JSON decodes the response body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Client performs a single HTTP exchange.
type Client interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// NewJSONResponse builds a Response whose body is the JSON encoding of payload.
// It panics if payload cannot be encoded, so it is meant for mocks and tests.
func NewJSONResponse(status int, payload any) *Response {
	body, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	return &Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       body,
	}
}
