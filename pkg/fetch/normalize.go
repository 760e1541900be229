package fetch

import (
	"strings"

	"github.com/assetnote/httpfetch/pkg/http"
)

// Normalized is a Config with every default applied. The redirect policy, timeout and future mode
// only live in Client so a handler never sees them twice, and the handler override is kept apart
// from anything that reaches the request descriptor.
type Normalized struct {
	Method  string
	Auth    *Auth
	Headers http.Headers
	Body    []byte
	Handler http.Handler
	Client  http.ClientOptions
}

// Normalize applies the defaults to c and moves the transport policy into the client options.
// c is not modified.
func Normalize(c Config) Normalized {
	follow := DefaultFollowLocation
	if c.FollowLocation != nil {
		follow = *c.FollowLocation
	}
	max := DefaultMaxRedirects
	if c.MaxRedirects != nil {
		max = *c.MaxRedirects
	}
	method := DefaultMethod
	if c.Method != "" {
		method = strings.ToUpper(c.Method)
	}

	n := Normalized{
		Method:  method,
		Handler: c.Handler,
		Headers: make(http.Headers, len(c.Headers)),
		Client: http.ClientOptions{
			Redirects: http.RedirectPolicy{Follow: follow, Max: max},
			Timeout:   c.Timeout,
			Future:    c.Future,
		},
	}
	// keys may have been set directly on the map with any case
	for k, vs := range c.Headers {
		for _, v := range vs {
			n.Headers.Add(k, v)
		}
	}
	if c.Auth != nil {
		a := *c.Auth
		n.Auth = &a
	}
	if c.Body != nil {
		n.Body = append([]byte{}, c.Body...)
	}
	if len(c.Extra) > 0 {
		n.Client.Extra = make(map[string]interface{}, len(c.Extra))
		for k, v := range c.Extra {
			n.Client.Extra[k] = v
		}
	}
	return n
}
