// Package output renders fetch responses for the httpfetch CLI as pretty tables, plain text or json.
package output
