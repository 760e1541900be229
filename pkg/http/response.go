package http

import (
	"fmt"

	"github.com/francoispqt/gojay"
	"github.com/rs/zerolog"
)

// Response is the response descriptor returned by a Handler.
//
// Error is set only when the handler could not complete the request. In that case Status is 0 and
// Body is nil.
//
// A response may be deferred, in which case its fields are only populated once Wait returns. Handlers
// that support FutureLazy return deferred responses; every other response is already complete and
// Wait returns immediately.
type Response struct {
	Status      int
	Headers     Headers
	Body        []byte
	Error       error
	HTTPVersion string

	// URL is the effective url that produced this response, after any redirects the handler followed
	URL string
	// Redirects is the number of redirects followed to produce this response
	Redirects int

	done chan struct{}
}

var closed = func() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}()

// ErrorResponse creates a response descriptor carrying only err
func ErrorResponse(url string, err error) *Response {
	return &Response{URL: url, Error: err}
}

// Defer returns a pending response that is populated with the result of fn. fn runs in its own
// goroutine straight away so multiple deferred responses progress concurrently.
func Defer(fn func() *Response) *Response {
	r := &Response{done: make(chan struct{})}
	go func() {
		defer close(r.done)
		res := fn()
		if res == nil {
			r.Error = fmt.Errorf("handler returned no response")
			return
		}
		// a deferred response may itself be deferred
		res.Wait()
		r.copyFrom(res)
	}()
	return r
}

func (r *Response) copyFrom(o *Response) {
	r.Status = o.Status
	r.Headers = o.Headers
	r.Body = o.Body
	r.Error = o.Error
	r.HTTPVersion = o.HTTPVersion
	r.URL = o.URL
	r.Redirects = o.Redirects
}

// Pending reports whether the response is deferred and not yet complete
func (r *Response) Pending() bool {
	if r.done == nil {
		return false
	}
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}

// Done returns a channel closed once the response fields are populated.
// For complete responses the channel is already closed
func (r *Response) Done() <-chan struct{} {
	if r.done == nil {
		return closed
	}
	return r.done
}

// Wait blocks until the response is complete and returns r
func (r *Response) Wait() *Response {
	if r.done != nil {
		<-r.done
	}
	return r
}

// IsRedirect reports whether the status code is a redirect
func (r *Response) IsRedirect() bool {
	return StatusCodeIsRedirect(r.Status)
}

func (r *Response) MarshalZerologObject(e *zerolog.Event) {
	e.Str("url", r.URL).
		Int("sc", r.Status).
		Int("len", len(r.Body)).
		Int("redirects", r.Redirects)
	if r.Error != nil {
		e.AnErr("transport", r.Error)
	}
}

func (r *Response) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("url", r.URL)
	enc.IntKey("status", r.Status)
	enc.StringKeyOmitEmpty("http_version", r.HTTPVersion)
	enc.IntKey("redirects", r.Redirects)
	enc.ObjectKey("headers", r.Headers)
	enc.StringKey("body", string(r.Body))
	if r.Error != nil {
		enc.StringKey("error", r.Error.Error())
	}
}

func (r *Response) IsNil() bool {
	return r == nil
}

func (r *Response) String() string {
	if r == nil {
		return ""
	}
	if r.Pending() {
		return "(pending)"
	}
	if r.Error != nil {
		return fmt.Sprintf("%s error: %v", r.URL, r.Error)
	}
	return fmt.Sprintf("%s (%d) %d", r.URL, len(r.Body), r.Status)
}
