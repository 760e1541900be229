package main

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/assetnote/httpfetch/pkg/log"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

var (
	requestCount count32
	delay        time.Duration
)

type count32 struct {
	val uint32
}

func (c *count32) increment() {
	atomic.AddUint32(&c.val, 1)
}

func (c *count32) get() uint32 {
	return atomic.LoadUint32(&c.val)
}

func PreRequest() {
	time.Sleep(delay)
	requestCount.increment()
}

func Index(ctx *fasthttp.RequestCtx) {
	PreRequest()

	ctx.Response.Header.Set("X-Host", string(ctx.Host()))
	ctx.WriteString("Welcome!")
}

// RedirectResponder redirects to /index. ?n=3 chains three redirects before landing
func RedirectResponder(ctx *fasthttp.RequestCtx) {
	PreRequest()

	n, _ := strconv.Atoi(string(ctx.QueryArgs().Peek("n")))
	location := "/index"
	if n > 1 {
		location = fmt.Sprintf("/redirect?n=%d", n-1)
	}
	fmt.Fprintf(ctx, "go to %s\n", location)
	ctx.SetStatusCode(fasthttp.StatusMovedPermanently)
	ctx.Response.Header.Add("location", location)
}

func RedirectLoopResponder(ctx *fasthttp.RequestCtx) {
	PreRequest()

	ctx.SetStatusCode(fasthttp.StatusFound)
	ctx.Response.Header.Add("location", "/redirect-loop")
}

// BasicAuthResponder echoes the basic auth credentials back as user:pass
func BasicAuthResponder(ctx *fasthttp.RequestCtx) {
	PreRequest()

	auth := string(ctx.Request.Header.Peek("Authorization"))
	if !strings.HasPrefix(auth, "Basic ") {
		ctx.Response.Header.Set("WWW-Authenticate", `Basic realm="httpfetch"`)
		ctx.SetStatusCode(fasthttp.StatusUnauthorized)
		return
	}
	creds, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		return
	}
	ctx.Write(creds)
}

func PostResponder(ctx *fasthttp.RequestCtx) {
	PreRequest()

	log.Debug().
		Bytes("method", ctx.Method()).
		Bytes("uri", ctx.RequestURI()).
		Int("len", len(ctx.PostBody())).Msg("got post request")
	ctx.Write(ctx.PostBody())
}

func WildcardResponder(ctx *fasthttp.RequestCtx) {
	PreRequest()

	fmt.Fprintf(ctx, "%s %s\n", ctx.Method(), ctx.RequestURI())
}

func newRouter() *router.Router {
	r := router.New()
	r.GET("/index", Index)
	r.GET("/redirect", RedirectResponder)
	r.GET("/redirect-loop", RedirectLoopResponder)
	r.GET("/basic-auth", BasicAuthResponder)
	r.POST("/post", PostResponder)
	r.PUT("/post", PostResponder)
	r.ANY("/{req:*}", WildcardResponder)
	return r
}
