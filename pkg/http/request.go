package http

import (
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
)

// Future selects whether a handler should block until the response is complete
type Future string

const (
	// FutureNone blocks until the response is complete
	FutureNone Future = ""
	// FutureLazy lets a handler that supports it return a deferred response immediately
	FutureLazy Future = "lazy"
)

// RedirectPolicy is the redirect directive understood by the built-in handlers
type RedirectPolicy struct {
	// Follow enables following redirects inside the transport
	Follow bool
	// Max is the maximum number of redirects to follow. 0 means the first response is returned
	Max int
}

// ClientOptions is the transport specific section of a request. The core only fills it in, handlers
// interpret it.
type ClientOptions struct {
	Redirects RedirectPolicy
	// Timeout bounds a single round trip. 0 uses the handler's default
	Timeout time.Duration
	Future  Future
	// Addr is the host:port to dial. When empty handlers dial the host header
	Addr string
	// Extra holds unrecognised configuration keys, passed through untouched
	Extra map[string]interface{}
}

// Request is the canonical request descriptor exchanged between the fetch core and a Handler
type Request struct {
	URI         string // URI is the escaped path, always starting with /
	Scheme      string
	Method      string
	QueryString string // QueryString is the raw query without the leading ?. Empty means absent
	Headers     Headers
	Body        []byte
	Client      ClientOptions
}

// Host returns the host header of the request
func (r *Request) Host() string {
	return r.Headers.Get("host")
}

// Address returns the host:port a handler should dial. This prefers Client.Addr and falls back to the
// host header with the conventional port of the scheme
func (r *Request) Address() string {
	if r.Client.Addr != "" {
		return r.Client.Addr
	}
	host := r.Host()
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	return net.JoinHostPort(host, DefaultPort(r.Scheme))
}

// AppendURL appends the absolute url of the request, built from the scheme, host header, uri and query
func (r *Request) AppendURL(b []byte) []byte {
	b = append(b, r.Scheme...)
	b = append(b, "://"...)
	b = append(b, r.Host()...)
	b = append(b, r.URI...)
	if r.QueryString != "" {
		b = append(b, '?')
		b = append(b, r.QueryString...)
	}
	return b
}

// URL returns the absolute url of the request
func (r *Request) URL() string {
	w := bytebufferpool.Get()
	ret := string(r.AppendURL(w.B))
	bytebufferpool.Put(w)
	return ret
}

func (r *Request) MarshalZerologObject(e *zerolog.Event) {
	e.Str("method", r.Method).
		Str("url", r.URL()).
		Str("addr", r.Address()).
		Int("body", len(r.Body)).
		Bool("follow", r.Client.Redirects.Follow).
		Int("max_redirects", r.Client.Redirects.Max).
		Object("headers", r.Headers)
}

// WriteRequest populates a fasthttp request from the descriptor. The URI host is the dial address
// while the host header is preserved as provided.
func (r *Request) WriteRequest(dst *fasthttp.Request) {
	dst.Header.DisableNormalizing()
	dst.Header.SetMethod(r.Method)

	for _, k := range r.Headers.Keys() {
		if k == "host" {
			continue
		}
		for _, v := range r.Headers[k] {
			dst.Header.Add(k, v)
		}
	}
	dst.Header.SetHost(r.Host())
	dst.UseHostHeader = true

	if len(r.Body) > 0 {
		dst.SetBody(r.Body)
	}

	u := dst.URI()
	u.DisablePathNormalizing = true
	u.SetScheme(r.Scheme)
	u.SetHost(r.Address())
	u.SetPath(r.URI)
	u.SetQueryString(r.QueryString)
}

// DefaultPort returns the conventional port for http and https. Any other scheme yields 80
func DefaultPort(scheme string) string {
	if strings.EqualFold(scheme, "https") {
		return "443"
	}
	return "80"
}

// IsDefaultPort reports whether port is the conventional port for scheme. Only http and https have one
func IsDefaultPort(scheme string, port int) bool {
	switch strings.ToLower(scheme) {
	case "http":
		return port == 80
	case "https":
		return port == 443
	}
	return false
}

// SupportedScheme reports whether the built-in handlers can speak the scheme
func SupportedScheme(scheme string) bool {
	s := strings.ToLower(scheme)
	return s == "http" || s == "https"
}
