/*
Package context provides a process wide context that is cancelled when the httpfetch binary receives an
interrupt. Commands derive their per request contexts from it with WithTimeout.

This is only meant for the CLI; library callers of pkg/fetch should pass their own context.
*/
package context
