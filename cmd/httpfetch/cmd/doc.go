/*
Package cmd provides all the commands for the httpfetch binary.

The commands are separated by file. The method shortcuts (get, post, ...) share the flags of the fetch command
and are generated in methods.go.

there are a few global CLI flags that can be used to configure how httpfetch will operate. These are defined
by the globally exposed variables and can also be set in $HOME/.httpfetch.yaml or with HTTPFETCH_ prefixed
environment variables

Usage

	httpfetch get http://localhost:14000/redirect -i
	httpfetch fetch -X POST -d 'a=b' -H 'content-type: application/x-www-form-urlencoded' http://localhost:14000/post
	httpfetch parallel 'http://localhost:14000/item/{n}' --range 1-100 -o json
*/
package cmd
