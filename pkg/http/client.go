package http

import (
	"context"
	"strings"
	"sync"
	"time"

	errors2 "github.com/assetnote/httpfetch/pkg/errors"
	"github.com/assetnote/httpfetch/pkg/log"
	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"
)

// HTTPClient is a type alias for the actual host client we use.
// We do this instead of using an interface to avoid reflecting
type HTTPClient = fasthttp.HostClient

// BackupClient is a normal fasthttpClient that can adapt to different hosts
// This is used to handle redirects that change the host/port of the request
type BackupClient = fasthttp.Client

type hostKey struct {
	addr string
	tls  bool
}

// FastHandler is the multiplexing handler backed by fasthttp. Connections are pooled per host and
// requests with FutureLazy return immediately with a deferred response, so many fetches can be in
// flight from a single goroutine.
//
// The handler follows redirects itself when the request asks for it (Client.Redirects).
type FastHandler struct {
	config Config

	// Dial overrides how connections are established. This is used by tests to dial an in memory listener
	Dial fasthttp.DialFunc

	mu      sync.Mutex
	clients map[hostKey]*HTTPClient
	backup  *BackupClient
}

var _ Handler = &FastHandler{}

// NewFastHandler creates a FastHandler with the provided config
func NewFastHandler(conf Config) *FastHandler {
	return &FastHandler{
		config:  conf,
		clients: make(map[hostKey]*HTTPClient),
	}
}

// HTTPClient will return a HTTPClient configured for the particular host.
// This is cached after the first call so connections are reused across requests
func (h *FastHandler) HTTPClient(addr string, tls bool) *HTTPClient {
	h.mu.Lock()
	defer h.mu.Unlock()
	k := hostKey{addr: addr, tls: tls}
	if c, ok := h.clients[k]; ok {
		return c
	}
	c := &HTTPClient{
		Addr:                     addr,
		IsTLS:                    tls,
		TLSConfig:                h.config.tlsConfig(),
		MaxConns:                 h.config.MaxConnsPerHost,
		ReadTimeout:              h.config.Timeout,
		WriteTimeout:             h.config.Timeout,
		NoDefaultUserAgentHeader: true,
		Dial:                     h.Dial,
	}
	h.clients[k] = c
	return c
}

// BackupClient provides a generic http client that is not bound to a single host.
// it is generated on demand the first time a redirect leaves the original host
func (h *FastHandler) BackupClient() *BackupClient {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.backup == nil {
		h.backup = &BackupClient{
			ReadTimeout:              h.config.Timeout,
			WriteTimeout:             h.config.Timeout,
			TLSConfig:                h.config.tlsConfig(),
			MaxConnsPerHost:          h.config.MaxConnsPerHost,
			NoDefaultUserAgentHeader: true,
			Dial:                     h.Dial,
		}
	}
	return h.backup
}

// CloseIdleConnections closes the idle connections of every cached client
func (h *FastHandler) CloseIdleConnections() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		c.CloseIdleConnections()
	}
	if h.backup != nil {
		h.backup.CloseIdleConnections()
	}
}

// Do performs the request. With Client.Future set to FutureLazy the request runs in the background and
// a deferred response is returned straight away
func (h *FastHandler) Do(ctx context.Context, req *Request) *Response {
	if req.Client.Future == FutureLazy {
		return Defer(func() *Response {
			return h.do(ctx, req)
		})
	}
	return h.do(ctx, req)
}

func (h *FastHandler) do(ctx context.Context, req *Request) *Response {
	url := req.URL()
	if !SupportedScheme(req.Scheme) {
		return ErrorResponse(url, &errors2.TransportError{URL: url, Op: "dial", Err: errors2.ErrUnsupportedScheme})
	}

	var (
		freq  = fasthttp.AcquireRequest()
		fresp = fasthttp.AcquireResponse()
	)
	defer fasthttp.ReleaseRequest(freq)
	defer fasthttp.ReleaseResponse(fresp)

	req.WriteRequest(freq)
	if h.config.UserAgent != "" && !req.Headers.Has("user-agent") {
		freq.Header.SetUserAgent(h.config.UserAgent)
	}

	c := h.HTTPClient(req.Address(), strings.EqualFold(req.Scheme, "https"))
	return h.doRequestFollowRedirects(ctx, c, freq, fresp, req)
}

type deadlineDoer interface {
	DoDeadline(req *fasthttp.Request, resp *fasthttp.Response, deadline time.Time) error
}

// doDeadline performs the round trip bounded by the earlier of the timeout and the context deadline.
// fasthttp has no context support so a cancelled context is only observed between round trips
func doDeadline(ctx context.Context, c deadlineDoer, freq *fasthttp.Request, fresp *fasthttp.Response, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	return c.DoDeadline(freq, fresp, deadline)
}

// doRequestFollowRedirects will use the client provided and attempt to follow req.Client.Redirects.Max redirects
// when req.Client.Redirects.Follow is set. When the limit is reached, or a redirect has no location header,
// the redirect response is returned as is and the caller decides what to do with it.
// We use a concrete HTTPClient instead of an interface to avoid reflection and saving us a few cycles
func (h *FastHandler) doRequestFollowRedirects(ctx context.Context, c *HTTPClient, freq *fasthttp.Request, fresp *fasthttp.Response, req *Request) *Response {
	var (
		timeout      = h.config.timeout(req)
		backupClient = false
		ret          = &Response{URL: req.URL()}
	)

	for {
		// we don't need to modify the fastreq on the first iteration of the loop since it should be prepared already from the caller
		// subsequent iterations of the loop when handling redirects need to have fastreq updated
		var err error
		if backupClient {
			err = doDeadline(ctx, h.BackupClient(), freq, fresp, timeout)
		} else {
			err = doDeadline(ctx, c, freq, fresp, timeout)
		}
		if err != nil {
			return ErrorResponse(ret.URL, &errors2.TransportError{
				URL: ret.URL,
				Op:  "do",
				Err: errors.Wrap(err, "fasthttp round trip"),
			})
		}

		// update our response with the results of the request
		ret.Status = fresp.Header.StatusCode()
		ret.HTTPVersion = string(fresp.Header.Protocol())
		ret.Headers = make(Headers)
		fresp.Header.VisitAll(func(k, v []byte) {
			ret.Headers.Add(string(k), string(v))
		})
		// the body is owned by fresp which goes back to the pool
		ret.Body = append([]byte{}, fresp.Body()...)

		if !req.Client.Redirects.Follow || !StatusCodeIsRedirect(ret.Status) {
			break
		}

		location := fresp.Header.PeekBytes(strLocation)
		if len(location) == 0 {
			log.Trace().Str("url", ret.URL).Msg("redirect without location header. not following")
			break
		}

		if ret.Redirects >= req.Client.Redirects.Max {
			log.Trace().Str("url", ret.URL).Int("max", req.Client.Redirects.Max).Msg("bailing out. reached max redirects")
			break
		}

		next, err := ResolveLocation(ret.URL, string(location))
		if err != nil {
			return ErrorResponse(ret.URL, &errors2.TransportError{
				URL: ret.URL,
				Op:  "redirect",
				Err: errors.Wrapf(err, "invalid location %q", location),
			})
		}
		if u := strings.SplitN(next, ":", 2)[0]; !SupportedScheme(u) {
			return ErrorResponse(next, &errors2.TransportError{URL: next, Op: "redirect", Err: errors2.ErrUnsupportedScheme})
		}

		// this is a single direction switch. once we move to the backup client, we can't go back
		// since we've moved off our original host, it doesnt make sense to use the hostclient anymore
		uri := freq.URI()
		if samehost := updateRedirectURL(uri, string(freq.Header.Host()), location); !samehost {
			backupClient = true
			freq.Header.SetHostBytes(uri.Host())
			// credentials were meant for the original host
			freq.Header.Del("authorization")
		}
		rewriteMethod(freq, ret.Status)

		ret.Redirects++
		ret.URL = next
		log.Trace().Str("location", next).Int("redirects", ret.Redirects).Msg("following redirect")
	}

	return ret
}

// rewriteMethod turns the request into a bodyless GET the way browsers do: always for 303, and for
// 301/302 when the original request was a POST. 307 and 308 preserve the method and body
func rewriteMethod(freq *fasthttp.Request, status int) {
	if status == fasthttp.StatusSeeOther ||
		((status == fasthttp.StatusMovedPermanently || status == fasthttp.StatusFound) && freq.Header.IsPost()) {
		if !freq.Header.IsHead() {
			freq.Header.SetMethod(fasthttp.MethodGet)
		}
		freq.ResetBody()
		freq.Header.Del(fasthttp.HeaderContentType)
		freq.Header.Del(fasthttp.HeaderContentLength)
	}
}
