package http

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	errors2 "github.com/assetnote/httpfetch/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func streamServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		body, _ := ioutil.ReadAll(r.Body)
		w.Header().Set("X-Host", r.Host)
		w.Header().Add("X-Multi", "a")
		w.Header().Add("X-Multi", "b")
		fmt.Fprintf(w, "%s %s %s %s", r.Method, r.URL.RequestURI(), r.UserAgent(), body)
	})
	mux.HandleFunc("/redirect", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/echo", http.StatusFound)
	})
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestStreamHandlerRequest(t *testing.T) {
	srv := streamServer(t)
	h := NewStreamHandler(NewDefaultConfig())

	req := newRequest(srv.URL+"/echo?a=b", 0)
	req.Method = "POST"
	req.Body = []byte("foo")
	resp := h.Do(context.Background(), req)
	require.NoError(t, resp.Error)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "POST /echo?a=b httpfetch foo", string(resp.Body))
	assert.Equal(t, []string{"a", "b"}, resp.Headers.Values("x-multi"))
	assert.Equal(t, "HTTP/1.1", resp.HTTPVersion)
	assert.False(t, resp.Pending())
}

func TestStreamHandlerVirtualHost(t *testing.T) {
	srv := streamServer(t)
	h := NewStreamHandler(NewDefaultConfig())

	req := newRequest("http://vhost.local/echo", 0)
	req.Client.Addr = srv.Listener.Addr().String()
	resp := h.Do(context.Background(), req)
	require.NoError(t, resp.Error)
	assert.Equal(t, "vhost.local", resp.Headers.Get("x-host"))
}

func TestStreamHandlerRedirects(t *testing.T) {
	srv := streamServer(t)
	h := NewStreamHandler(NewDefaultConfig())

	resp := h.Do(context.Background(), newRequest(srv.URL+"/redirect", 5))
	require.NoError(t, resp.Error)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, 1, resp.Redirects)
	assert.Equal(t, srv.URL+"/echo", resp.URL)

	resp = h.Do(context.Background(), newRequest(srv.URL+"/redirect", 0))
	require.NoError(t, resp.Error)
	assert.Equal(t, 302, resp.Status)
	assert.Equal(t, 0, resp.Redirects)

	resp = h.Do(context.Background(), newRequest(srv.URL+"/loop", 3))
	require.NoError(t, resp.Error)
	assert.Equal(t, 301, resp.Status)
	assert.Equal(t, 3, resp.Redirects)
}

func TestStreamHandlerTimeout(t *testing.T) {
	srv := streamServer(t)
	h := NewStreamHandler(NewDefaultConfig())

	req := newRequest(srv.URL+"/slow", 0)
	req.Client.Timeout = 50 * time.Millisecond
	resp := h.Do(context.Background(), req)
	var terr *errors2.TransportError
	require.True(t, errors.As(resp.Error, &terr))
	assert.Equal(t, "do", terr.Op)
}

func TestStreamHandlerUnsupportedScheme(t *testing.T) {
	h := NewStreamHandler(NewDefaultConfig())
	req := newRequest("http://example.com/", 0)
	req.Scheme = "gopher"
	resp := h.Do(context.Background(), req)
	assert.True(t, errors.Is(resp.Error, errors2.ErrUnsupportedScheme))
}

func TestStreamHandlerIgnoresLazy(t *testing.T) {
	srv := streamServer(t)
	h := NewStreamHandler(NewDefaultConfig())
	req := newRequest(srv.URL+"/echo", 0)
	req.Client.Future = FutureLazy
	resp := h.Do(context.Background(), req)
	assert.False(t, resp.Pending())
	assert.Equal(t, 200, resp.Status)
}
