package fetch

import (
	"context"

	"github.com/assetnote/httpfetch/pkg/http"
)

// withMethod appends the method option last so it wins over any method in opts
func withMethod(opts []ConfigOption, method string) []ConfigOption {
	ret := make([]ConfigOption, 0, len(opts)+1)
	ret = append(ret, opts...)
	return append(ret, Method(method))
}

func (d *Dispatcher) Get(ctx context.Context, rawurl string, opts ...ConfigOption) (*http.Response, error) {
	return d.Fetch(ctx, rawurl, withMethod(opts, "GET")...)
}

func (d *Dispatcher) Post(ctx context.Context, rawurl string, opts ...ConfigOption) (*http.Response, error) {
	return d.Fetch(ctx, rawurl, withMethod(opts, "POST")...)
}

func (d *Dispatcher) Put(ctx context.Context, rawurl string, opts ...ConfigOption) (*http.Response, error) {
	return d.Fetch(ctx, rawurl, withMethod(opts, "PUT")...)
}

func (d *Dispatcher) Delete(ctx context.Context, rawurl string, opts ...ConfigOption) (*http.Response, error) {
	return d.Fetch(ctx, rawurl, withMethod(opts, "DELETE")...)
}

func (d *Dispatcher) Head(ctx context.Context, rawurl string, opts ...ConfigOption) (*http.Response, error) {
	return d.Fetch(ctx, rawurl, withMethod(opts, "HEAD")...)
}

func (d *Dispatcher) Options(ctx context.Context, rawurl string, opts ...ConfigOption) (*http.Response, error) {
	return d.Fetch(ctx, rawurl, withMethod(opts, "OPTIONS")...)
}

// Get is Fetch with the method forced to GET
func Get(ctx context.Context, rawurl string, opts ...ConfigOption) (*http.Response, error) {
	return std.Get(ctx, rawurl, opts...)
}

// Post is Fetch with the method forced to POST
func Post(ctx context.Context, rawurl string, opts ...ConfigOption) (*http.Response, error) {
	return std.Post(ctx, rawurl, opts...)
}

func Put(ctx context.Context, rawurl string, opts ...ConfigOption) (*http.Response, error) {
	return std.Put(ctx, rawurl, opts...)
}

func Delete(ctx context.Context, rawurl string, opts ...ConfigOption) (*http.Response, error) {
	return std.Delete(ctx, rawurl, opts...)
}

func Head(ctx context.Context, rawurl string, opts ...ConfigOption) (*http.Response, error) {
	return std.Head(ctx, rawurl, opts...)
}

func Options(ctx context.Context, rawurl string, opts ...ConfigOption) (*http.Response, error) {
	return std.Options(ctx, rawurl, opts...)
}

// Shortcut returns the shortcut for method, or nil when there is none
func (d *Dispatcher) Shortcut(method string) func(context.Context, string, ...ConfigOption) (*http.Response, error) {
	switch method {
	case "GET":
		return d.Get
	case "POST":
		return d.Post
	case "PUT":
		return d.Put
	case "DELETE":
		return d.Delete
	case "HEAD":
		return d.Head
	case "OPTIONS":
		return d.Options
	}
	return nil
}
