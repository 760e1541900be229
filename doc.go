/*
Package httpfetch fetches http resources through a pluggable handler, following redirects on top of
whatever the handler already follows.

There are no exports in the root package. The library lives in pkg/fetch and the transports in pkg/http.

CLI tools part of `cmd/` include:
	- httpfetch - fetch single urls, use the method shortcuts or fetch many urls in parallel
	- testServer - a local server with redirect, redirect loop, basic auth and echo routes for exercising the handlers

*/
package httpfetch
