package fetch

import (
	"context"
	"fmt"

	errors2 "github.com/assetnote/httpfetch/pkg/errors"
	"github.com/assetnote/httpfetch/pkg/http"
	"github.com/assetnote/httpfetch/pkg/log"
	"github.com/segmentio/ksuid"
)

// Dispatcher turns a url and a config into a request, hands it to a handler and follows 301/302
// redirects on top of whatever the handler already followed.
type Dispatcher struct {
	registry *Registry
}

type DispatcherOption func(*Dispatcher)

// WithRegistry makes the dispatcher resolve its default handler from r instead of the process wide registry
func WithRegistry(r *Registry) DispatcherOption {
	return func(d *Dispatcher) {
		d.registry = r
	}
}

// NewDispatcher creates a dispatcher backed by the process wide registry unless WithRegistry is given
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{registry: defaultRegistry}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Fetch performs a request for rawurl with the options applied over the defaults
func (d *Dispatcher) Fetch(ctx context.Context, rawurl string, opts ...ConfigOption) (*http.Response, error) {
	var conf Config
	for _, o := range opts {
		o(&conf)
	}
	return d.FetchConfig(ctx, rawurl, conf)
}

// FetchConfig performs a request for rawurl with conf.
//
// The returned error is an OptionError, a MalformedURLError or a TooManyRedirectsError. Transport failures,
// including a location header that cannot be followed, are reported in Response.Error. Lazy requests return
// a deferred response straight away: the redirects are followed in the background and a
// TooManyRedirectsError is reported in Response.Error instead.
func (d *Dispatcher) FetchConfig(ctx context.Context, rawurl string, conf Config) (*http.Response, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	u, err := ParseURL(rawurl)
	if err != nil {
		return nil, err
	}

	n := Normalize(conf)
	handler := n.Handler
	if handler == nil {
		handler = d.registry.Handler()
	}

	id := ksuid.New().String()
	req := BuildRequest(u, n)
	log.Trace().Str("id", id).Object("req", req).Msg("dispatching request")

	resp := do(ctx, handler, req)
	if !n.Client.Redirects.Follow {
		return resp, nil
	}
	if n.Client.Future == http.FutureLazy {
		return http.Defer(func() *http.Response {
			final, err := d.follow(ctx, id, handler, u, n, resp.Wait())
			if err != nil {
				return http.ErrorResponse(rawurl, err)
			}
			return final
		}), nil
	}
	return d.follow(ctx, id, handler, u, n, resp.Wait())
}

func do(ctx context.Context, handler http.Handler, req *http.Request) *http.Response {
	resp := handler.Do(ctx, req)
	if resp == nil {
		url := req.URL()
		return http.ErrorResponse(url, &errors2.TransportError{URL: url, Op: "do", Err: fmt.Errorf("handler returned no response")})
	}
	return resp
}

// follow chases 301 and 302 responses. Redirects the handler followed itself count towards the limit
func (d *Dispatcher) follow(ctx context.Context, id string, handler http.Handler, u *URL, n Normalized, resp *http.Response) (*http.Response, error) {
	var (
		max       = n.Client.Redirects.Max
		redirects = resp.Redirects
		current   = u
	)

	for resp.Error == nil && (resp.Status == 301 || resp.Status == 302) {
		location := resp.Headers.Get("location")
		if location == "" {
			log.Trace().Str("id", id).Str("url", current.String()).Msg("redirect without location header. not following")
			break
		}

		base := resp.URL
		if base == "" {
			base = current.String()
		}
		next, err := http.ResolveLocation(base, location)
		if err != nil {
			return badLocation(base, redirects, &errors2.MalformedURLError{URL: location, Reason: "invalid location", Err: err}), nil
		}

		redirects++
		if redirects > max {
			log.Trace().Str("id", id).Str("url", next).Int("max", max).Msg("redirect limit exceeded")
			return nil, &errors2.TooManyRedirectsError{URL: next, Max: max}
		}

		if current, err = ParseURL(next); err != nil {
			return badLocation(base, redirects-1, err), nil
		}
		log.Trace().Str("id", id).Str("location", next).Int("redirects", redirects).Msg("following redirect")

		req := BuildRequest(current, n)
		// the handler may only follow what is left of the budget
		req.Client.Redirects.Max = max - redirects
		resp = do(ctx, handler, req).Wait()
		redirects += resp.Redirects
	}

	resp.Redirects = redirects
	return resp, nil
}

// badLocation reports a location header that cannot be followed as an in-band TransportError
func badLocation(url string, redirects int, err error) *http.Response {
	resp := http.ErrorResponse(url, &errors2.TransportError{URL: url, Op: "redirect", Err: err})
	resp.Redirects = redirects
	return resp
}

var std = NewDispatcher()

// Fetch performs a request with the process wide default handler unless the options name one
func Fetch(ctx context.Context, rawurl string, opts ...ConfigOption) (*http.Response, error) {
	return std.Fetch(ctx, rawurl, opts...)
}

// FetchConfig is Fetch with an explicit Config, e.g. one built by ConfigFromMap
func FetchConfig(ctx context.Context, rawurl string, conf Config) (*http.Response, error) {
	return std.FetchConfig(ctx, rawurl, conf)
}
