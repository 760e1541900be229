package http

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/assetnote/httpfetch/pkg/log"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
	"github.com/valyala/fasthttp/reuseport"
)

type fataler interface {
	Fatal(args ...interface{})
}

func fooHandler(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.AddBytesKV([]byte("x-custom-header"), []byte("key"))
	ctx.Response.AppendBodyString("foo")
}

func httpServer(t fataler) net.Listener {
	ln, err := reuseport.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatal("failed to listen", err)
	}
	s := &fasthttp.Server{Handler: fooHandler}
	go s.Serve(ln)
	return ln
}

func memoryServer(t fataler, h fasthttp.RequestHandler) *fasthttputil.InmemoryListener {
	ln := fasthttputil.NewInmemoryListener()
	s := &fasthttp.Server{Handler: h}
	go s.Serve(ln)
	return ln
}

func memoryRedirectServer(t fataler) *fasthttputil.InmemoryListener {
	return memoryServer(t, func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Path()) == "/foo" {
			ctx.Response.AppendBodyString("foo")
			return
		}
		ctx.Response.SetStatusCode(302)
		ctx.Response.Header.AddBytesKV([]byte("location"), []byte("/foo"))
	})
}

// memoryHandler returns a FastHandler whose connections all go to ln
func memoryHandler(ln *fasthttputil.InmemoryListener) *FastHandler {
	conf := NewDefaultConfig()
	conf.Timeout = time.Second
	h := NewFastHandler(conf)
	h.Dial = func(addr string) (net.Conn, error) {
		return ln.Dial()
	}
	return h
}

func benchRequest(addr, uri string, max int) *Request {
	return &Request{
		URI:     uri,
		Scheme:  "http",
		Method:  "GET",
		Headers: Headers{"host": {"bench.local"}},
		Client: ClientOptions{
			Addr:      addr,
			Redirects: RedirectPolicy{Follow: max > 0, Max: max},
		},
	}
}

func BenchmarkTCPRequest(b *testing.B) {
	b.ReportAllocs()
	var (
		ln  = httpServer(b)
		h   = NewFastHandler(Config{Timeout: time.Second, MaxConnsPerHost: 4})
		req = benchRequest(ln.Addr().String(), "/foo", 0)
		ctx = context.Background()
	)
	defer ln.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res := h.Do(ctx, req)
		if res.Error != nil {
			b.Fatal("bad err", res.Error)
		}
		if len(res.Body) != 3 {
			b.Fatal("bad length", len(res.Body))
		}
	}
}

func BenchmarkMemoryRequest(b *testing.B) {
	b.ReportAllocs()
	var (
		ln  = memoryServer(b, fooHandler)
		h   = memoryHandler(ln)
		req = benchRequest(ln.Addr().String(), "/foo", 0)
		ctx = context.Background()
	)
	defer ln.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if res := h.Do(ctx, req); res.Error != nil {
			b.Fatalf("bad %v", res.Error)
		}
	}
}

func BenchmarkMemoryRedirectRequest(b *testing.B) {
	log.SetLevelString("error")
	b.ReportAllocs()
	var (
		ln  = memoryRedirectServer(b)
		h   = memoryHandler(ln)
		req = benchRequest(ln.Addr().String(), "/bar", 1)
		ctx = context.Background()
	)
	defer ln.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res := h.Do(ctx, req)
		if res.Error != nil {
			b.Fatalf("bad %v", res.Error)
		}
		if res.Redirects != 1 {
			b.Fatal("bad redirects", res.Redirects)
		}
	}
}

func BenchmarkMemoryLazyRequest(b *testing.B) {
	b.ReportAllocs()
	var (
		ln  = memoryServer(b, fooHandler)
		h   = memoryHandler(ln)
		req = benchRequest(ln.Addr().String(), "/foo", 0)
		ctx = context.Background()
	)
	defer ln.Close()
	req.Client.Future = FutureLazy

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if res := h.Do(ctx, req).Wait(); res.Error != nil {
			b.Fatalf("bad %v", res.Error)
		}
	}
}
