package httpclient

import (
	"context"
	"net/http"
)

// Request describes a single outgoing call. A nil Body sends no payload.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	Header() http.Header
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// Implementations must be safe for concurrent use.
type Client interface {
	Do(ctx context.Context, req Request) (Response, error)
}
