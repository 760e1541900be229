package http

import (
	"bytes"
	"net"
	"net/url"
	"strings"

	"github.com/valyala/fasthttp"
)

var (
	strLocation = []byte(fasthttp.HeaderLocation)
)

// StatusCodeIsRedirect returns true if the status code indicates a redirect.
func StatusCodeIsRedirect(statusCode int) bool {
	return statusCode == fasthttp.StatusMovedPermanently ||
		statusCode == fasthttp.StatusFound ||
		statusCode == fasthttp.StatusSeeOther ||
		statusCode == fasthttp.StatusTemporaryRedirect ||
		statusCode == fasthttp.StatusPermanentRedirect
}

// ResolveLocation resolves a location header against the url that returned it.
// Relative locations such as /foo or ../bar are resolved the way a browser would
func ResolveLocation(base, location string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	l, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(l).String(), nil
}

// updateRedirectURL will update base with the location header. This will also return if the
// redirect is on the same host or not. origin is the host header of the request that was redirected, which
// differs from the URI host when a dial address was given.
func updateRedirectURL(base *fasthttp.URI, origin string, location []byte) bool {
	// preserve the old values to determine whether our scheme/host has changed
	var (
		host   = append([]byte{}, base.Host()...)
		scheme = string(base.Scheme())
	)
	base.UpdateBytes(location)
	// we need to compare the host (including port) and the scheme (protocol), otherwise we'll be trying a http
	// request against a https redirect
	if !strings.EqualFold(scheme, string(base.Scheme())) {
		return false
	}
	if bytes.Equal(host, base.Host()) {
		return true
	}
	next := canonicalHost(scheme, string(base.Host()))
	return next == canonicalHost(scheme, string(host)) || next == canonicalHost(scheme, origin)
}

// canonicalHost lowercases host and adds the default port of scheme when it has none
func canonicalHost(scheme, host string) string {
	host = strings.ToLower(host)
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(strings.TrimSuffix(strings.TrimPrefix(host, "["), "]"), DefaultPort(scheme))
}
