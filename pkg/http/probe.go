package http

import (
	"strings"
)

// TransportEnv is the environment variable that forces a transport. Valid values are "fast" and
// "stream". Anything else lets NativeSupported decide
const TransportEnv = "HTTPFETCH_TRANSPORT"

var proxyEnv = []string{
	"HTTP_PROXY", "http_proxy",
	"HTTPS_PROXY", "https_proxy",
	"ALL_PROXY", "all_proxy",
}

// NativeSupported reports whether the FastHandler can serve requests in this environment.
// fasthttp has no proxy support, so any proxy configured in the environment selects the
// StreamHandler, which honours it. getenv is usually os.Getenv
func NativeSupported(getenv func(string) string) bool {
	switch strings.ToLower(strings.TrimSpace(getenv(TransportEnv))) {
	case "stream":
		return false
	case "fast", "native":
		return true
	}
	for _, k := range proxyEnv {
		if getenv(k) != "" {
			return false
		}
	}
	return true
}
