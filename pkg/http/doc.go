/*
Package http defines the request and response descriptors exchanged between the fetch core and a
transport Handler, and provides the two built-in handlers.

The FastHandler is a wrapper around the fasthttp library. It keeps a fasthttp.HostClient per host,
follows redirects itself and supports lazy futures: a request with Client.Future set to FutureLazy
returns a deferred Response immediately and the round trip happens in the background.

The StreamHandler wraps net/http. It is slower but honours proxies configured in the environment, so it
is what NativeSupported falls back to when a proxy is set.

There are a few quirks to be aware of when implementing a Handler

 - Headers keys are always lower case. Use the Headers methods rather than indexing the map
 - The host header is what is sent on the wire, Client.Addr is where the request is sent. The two only
   differ when a caller overrides the host header
 - Transport failures are reported on Response.Error. A Handler never panics or returns nil

Responses may be deferred. Always call Wait before reading the fields of a response you did not create

	resp := handler.Do(ctx, req).Wait()
	if resp.Error != nil {
		...
	}
*/
package http
