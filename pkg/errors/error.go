package errors

import (
	"errors"
	"fmt"

	"github.com/assetnote/httpfetch/pkg/log"
	"github.com/hashicorp/go-multierror"
)

var (
	// ErrUnsupportedScheme is wrapped by a TransportError when a handler cannot speak the URL scheme
	ErrUnsupportedScheme = errors.New("unsupported scheme")
)

// prefixfromDepth will create the indent prefix for a certain depth
// of string, e.g. 2 will yield "  " * 2 -> "    "
func prefixFromDepth(depth int) string {
	var p []byte
	for i := 0; i < depth; i++ {
		p = append(p, "  "...)
	}
	return string(p)
}

// PrintError will attempt to traverse the nested error and
// recursively print out any nested fetch errors found
// If a multierror.Error is found, we will recurisvely print out
// each error found
func PrintError(err error, depth int) {
	var (
		merr *multierror.Error
		oerr *OptionError
	)

	if errors.As(err, &oerr) && errors.As(oerr.Err, &merr) {
		log.Debug().Msg(prefixFromDepth(depth) + "invalid options")
		PrintError(merr, depth+1)
	} else if errors.As(err, &merr) {
		for _, v := range merr.Errors {
			PrintError(v, depth+1)
		}
	} else {
		logError(err, depth)
	}
}

func logError(err error, depth int) {
	var (
		uerr *MalformedURLError
		rerr *TooManyRedirectsError
		terr *TransportError
	)
	base := log.Debug()
	switch {
	case errors.As(err, &uerr):
		base = base.Str("url", uerr.URL).Str("reason", uerr.Reason)
	case errors.As(err, &rerr):
		base = base.Str("url", rerr.URL).Int("max", rerr.Max)
	case errors.As(err, &terr):
		base = base.Str("url", terr.URL).Str("op", terr.Op)
	}
	base.Err(err).Msg(prefixFromDepth(depth) + "error")
}

// MalformedURLError is returned when a URL cannot be decomposed into at least a scheme and a host.
// No handler is invoked when this is returned
type MalformedURLError struct {
	URL    string // URL is the raw input
	Reason string // Reason is a short human readable explanation, e.g. "missing scheme"
	Err    error  // Err is the underlying parser error, if any
}

func (e *MalformedURLError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed url %q: %s: %s", e.URL, e.Reason, e.Err.Error())
	}
	return fmt.Sprintf("malformed url %q: %s", e.URL, e.Reason)
}

func (e *MalformedURLError) Unwrap() error { return e.Err }

// TooManyRedirectsError is returned once a redirect chain exceeds the configured maximum
type TooManyRedirectsError struct {
	URL string // URL is the location we refused to follow
	Max int
}

func (e *TooManyRedirectsError) Error() string {
	return fmt.Sprintf("too many redirects: exceeded %d while following %s", e.Max, e.URL)
}

// TransportError describes a request a handler could not complete, e.g. connection refused,
// dns failure or an unsupported scheme. It is carried on the response, never returned.
type TransportError struct {
	URL string
	Op  string // Op is the step that failed: "dial", "do", "read", "redirect"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error [%s %s]: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// OptionError is returned when configuration options have unsupported values or types.
// Err is usually a *multierror.Error holding one error per bad field
type OptionError struct {
	Err error
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("invalid options: %v", e.Err)
}

func (e *OptionError) Unwrap() error { return e.Err }
