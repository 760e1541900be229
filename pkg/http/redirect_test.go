package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func TestStatusCodeIsRedirect(t *testing.T) {
	for _, sc := range []int{301, 302, 303, 307, 308} {
		assert.True(t, StatusCodeIsRedirect(sc), sc)
	}
	for _, sc := range []int{200, 300, 304, 404} {
		assert.False(t, StatusCodeIsRedirect(sc), sc)
	}
}

func TestResolveLocation(t *testing.T) {
	tests := []struct {
		base     string
		location string
		want     string
	}{
		{"http://example.com/a/b", "/c", "http://example.com/c"},
		{"http://example.com/a/b", "c", "http://example.com/a/c"},
		{"http://example.com/a/b", "../c?x=1", "http://example.com/c?x=1"},
		{"http://example.com/a", "https://other.com/", "https://other.com/"},
		{"https://example.com/a", "//other.com/b", "https://other.com/b"},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			got, err := ResolveLocation(tt.base, tt.location)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ResolveLocation("http://example.com/", "http://[::1")
	assert.Error(t, err)
}

func TestUpdateRedirectURL(t *testing.T) {
	tests := []struct {
		name     string
		location string
		same     bool
		want     string
	}{
		{"relative", "/foo", true, "http://example.com:80/foo"},
		{"same full host", "http://example.com:80/foo", true, "http://example.com:80/foo"},
		{"same host default port", "http://example.com/foo", true, "http://example.com/foo"},
		{"same host upper case", "http://EXAMPLE.com/foo", true, "http://example.com/foo"},
		{"virtual host", "http://vhost.local/foo", true, "http://vhost.local/foo"},
		{"virtual host other port", "http://vhost.local:8080/foo", false, "http://vhost.local:8080/foo"},
		{"other host", "http://other.com/foo", false, "http://other.com/foo"},
		{"scheme change", "https://example.com:80/foo", false, "https://example.com:80/foo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &fasthttp.URI{}
			u.SetScheme("http")
			u.SetHost("example.com:80")
			u.SetPath("/start")
			assert.Equal(t, tt.same, updateRedirectURL(u, "vhost.local", []byte(tt.location)))
			assert.Equal(t, tt.want, u.String())
		})
	}
}

func TestCanonicalHost(t *testing.T) {
	tests := []struct {
		scheme string
		host   string
		want   string
	}{
		{"http", "example.com", "example.com:80"},
		{"https", "Example.com", "example.com:443"},
		{"http", "example.com:8080", "example.com:8080"},
		{"http", "[::1]", "[::1]:80"},
		{"https", "[::1]:8443", "[::1]:8443"},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalHost(tt.scheme, tt.host))
		})
	}
}
