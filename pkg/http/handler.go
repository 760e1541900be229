package http

import (
	"context"
)

// Handler performs the network I/O for a request descriptor. Handlers never return Go errors: a
// request that could not be completed yields a response with Error set.
type Handler interface {
	Do(ctx context.Context, req *Request) *Response
}

// HandlerFunc adapts a function to a Handler
type HandlerFunc func(ctx context.Context, req *Request) *Response

func (f HandlerFunc) Do(ctx context.Context, req *Request) *Response {
	return f(ctx, req)
}
