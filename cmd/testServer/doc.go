/*
Package testServer provides a fasthttp server exposing the routes httpfetch is exercised against.

Routes

	GET  /index          Welcome!, echoes the host header in X-Host
	GET  /redirect       301 to /index. ?n=3 chains three redirects
	GET  /redirect-loop  302 to itself
	GET  /basic-auth     echoes the basic auth credentials as user:pass, 401 without them
	POST /post           echoes the request body

The server is used for testing, and should not be used in a production environment.

Usage

	go run ./cmd/testServer -p 14000-14010
*/
package main
