package httpclient

import (
	"context"
	"errors"
)

// ErrNoResponse is returned when a request completes without an HTTP response.
var ErrNoResponse = errors.New("no http response received")

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Do(ctx context.Context, method, url string, headers map[string]string, body []byte) (Response, error)
}
