/*
Package fetch performs single http requests through a pluggable handler.

A fetch parses the url, applies the defaults to the config, builds a request descriptor and passes it
to a handler. The handler comes from the config when one is set and from a Registry otherwise. The
process wide registry probes the environment on first use and picks the fasthttp backed handler
unless a proxy is configured.

	resp, err := fetch.Get(ctx, "http://example.com/", fetch.BasicAuth("user", ""))
	if err != nil {
		// OptionError, MalformedURLError or TooManyRedirectsError
	}
	resp.Wait()
	if resp.Error != nil {
		// the handler could not complete the request
	}

301 and 302 responses are followed up to MaxRedirects times, counting redirects the handler already
followed. Requesting a lazy response returns straight away and the fields are populated once Wait
returns. FetchAll uses this to keep many requests in flight.
*/
package fetch
