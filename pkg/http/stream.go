package http

import (
	"bytes"
	"context"
	"io/ioutil"
	"net"
	"net/http"
	"net/url"
	"strings"

	errors2 "github.com/assetnote/httpfetch/pkg/errors"
	"github.com/assetnote/httpfetch/pkg/log"
	"github.com/pkg/errors"
)

type redirectCountKey struct{}

// StreamHandler is the sequential handler backed by net/http. It is the fallback when the FastHandler
// cannot be used, e.g. when a proxy is configured in the environment. Requests always block, FutureLazy
// is ignored.
type StreamHandler struct {
	config Config
	client *http.Client
}

var _ Handler = &StreamHandler{}

// NewStreamHandler creates a StreamHandler with the provided config
func NewStreamHandler(conf Config) *StreamHandler {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSClientConfig:     conf.tlsConfig(),
		MaxConnsPerHost:     conf.MaxConnsPerHost,
		MaxIdleConnsPerHost: conf.MaxConnsPerHost,
		DialContext:         (&net.Dialer{Timeout: conf.Timeout}).DialContext,
	}
	h := &StreamHandler{config: conf}
	h.client = &http.Client{
		Transport:     transport,
		CheckRedirect: h.checkRedirect,
	}
	return h
}

// checkRedirect applies the RedirectPolicy of the descriptor that started the chain. The policy and a
// redirect counter travel on the request context
func (h *StreamHandler) checkRedirect(r *http.Request, via []*http.Request) error {
	policy, _ := r.Context().Value(redirectPolicyKey{}).(RedirectPolicy)
	if !policy.Follow || len(via) > policy.Max {
		return http.ErrUseLastResponse
	}
	if !SupportedScheme(r.URL.Scheme) {
		return http.ErrUseLastResponse
	}
	if counter, ok := r.Context().Value(redirectCountKey{}).(*int); ok {
		*counter = len(via)
	}
	log.Trace().Str("location", r.URL.String()).Int("redirects", len(via)).Msg("following redirect")
	return nil
}

type redirectPolicyKey struct{}

// Do performs the request and blocks until the full body is read
func (h *StreamHandler) Do(ctx context.Context, req *Request) *Response {
	target := req.URL()
	if !SupportedScheme(req.Scheme) {
		return ErrorResponse(target, &errors2.TransportError{URL: target, Op: "dial", Err: errors2.ErrUnsupportedScheme})
	}

	redirects := 0
	ctx = context.WithValue(ctx, redirectPolicyKey{}, req.Client.Redirects)
	ctx = context.WithValue(ctx, redirectCountKey{}, &redirects)
	ctx, cancel := context.WithTimeout(ctx, h.config.timeout(req))
	defer cancel()

	hreq, err := h.stdRequest(ctx, req)
	if err != nil {
		return ErrorResponse(target, &errors2.TransportError{URL: target, Op: "dial", Err: errors.Wrap(err, "building request")})
	}

	hresp, err := h.client.Do(hreq)
	if err != nil {
		return ErrorResponse(target, &errors2.TransportError{URL: target, Op: "do", Err: errors.Wrap(err, "net/http round trip")})
	}
	defer hresp.Body.Close()

	body, err := ioutil.ReadAll(hresp.Body)
	if err != nil {
		return ErrorResponse(target, &errors2.TransportError{URL: target, Op: "read", Err: errors.Wrap(err, "reading body")})
	}

	ret := &Response{
		Status:      hresp.StatusCode,
		HTTPVersion: hresp.Proto,
		Headers:     make(Headers, len(hresp.Header)),
		Body:        body,
		URL:         target,
		Redirects:   redirects,
	}
	if redirects > 0 {
		ret.URL = hresp.Request.URL.String()
	}
	for k, vs := range hresp.Header {
		for _, v := range vs {
			ret.Headers.Add(k, v)
		}
	}
	return ret
}

// stdRequest translates the descriptor into a net/http request. The url host is the dial address and the
// host header is carried in http.Request.Host
func (h *StreamHandler) stdRequest(ctx context.Context, req *Request) (*http.Request, error) {
	u := &url.URL{
		Scheme:   strings.ToLower(req.Scheme),
		Host:     req.Address(),
		RawQuery: req.QueryString,
	}
	path, err := url.PathUnescape(req.URI)
	if err != nil {
		return nil, err
	}
	u.Path = path
	u.RawPath = req.URI

	var body *bytes.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	var hreq *http.Request
	if body != nil {
		hreq, err = http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	} else {
		hreq, err = http.NewRequestWithContext(ctx, req.Method, u.String(), nil)
	}
	if err != nil {
		return nil, err
	}

	for _, k := range req.Headers.Keys() {
		if k == "host" {
			continue
		}
		for _, v := range req.Headers[k] {
			hreq.Header.Add(k, v)
		}
	}
	hreq.Host = req.Host()
	if h.config.UserAgent != "" && !req.Headers.Has("user-agent") {
		hreq.Header.Set("User-Agent", h.config.UserAgent)
	}
	return hreq, nil
}
