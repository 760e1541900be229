/*
The errors package provides the error taxonomy shared by the fetch core and the transport handlers,
and utilities to print nested errors.

Input errors (MalformedURLError, OptionError) and TooManyRedirectsError are returned by the dispatcher.
TransportError is never returned; it travels in-band on the response descriptor so callers can inspect
routine network failures without handling a Go error.

Usage

	import errors2 "github.com/assetnote/httpfetch/pkg/errors"

	...

	resps, err := fetch.FetchAll(ctx, urls)
	if err != nil {
		errors2.PrintError(err, 0)
	}
	for _, r := range resps {
		var terr *errors2.TransportError
		if r != nil && errors.As(r.Error, &terr) {
			log.Info().Str("url", terr.URL).Msg("host unreachable")
		}
	}

*/
package errors
