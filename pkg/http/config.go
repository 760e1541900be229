package http

import (
	"crypto/tls"
	"time"
)

const (
	// DefaultTimeout bounds each round trip when neither the config nor the request sets a timeout
	DefaultTimeout = 30 * time.Second
	// DefaultMaxConnsPerHost is the connection cap per host for the FastHandler
	DefaultMaxConnsPerHost = 16
	// DefaultUserAgent is sent when the request does not carry a user-agent header
	DefaultUserAgent = "httpfetch"
)

// Config provides the options used to construct the built-in handlers
type Config struct {
	// Timeout is the read and write timeout of a connection, and the default round trip timeout
	Timeout time.Duration `toml:"timeout" json:"timeout" mapstructure:"timeout"`
	// MaxConnsPerHost caps the concurrent connections to a single host
	MaxConnsPerHost int `toml:"max_conns_per_host" json:"max_conns_per_host" mapstructure:"max_conns_per_host"`
	// InsecureSkipVerify disables tls certificate verification
	InsecureSkipVerify bool `toml:"insecure" json:"insecure" mapstructure:"insecure"`
	// UserAgent is added to requests that have no user-agent header. Empty disables it
	UserAgent string `toml:"user_agent" json:"user_agent" mapstructure:"user_agent"`
}

// NewDefaultConfig returns the config used when a handler is created without one
func NewDefaultConfig() Config {
	return Config{
		Timeout:         DefaultTimeout,
		MaxConnsPerHost: DefaultMaxConnsPerHost,
		UserAgent:       DefaultUserAgent,
	}
}

func (c Config) tlsConfig() *tls.Config {
	return &tls.Config{
		InsecureSkipVerify: c.InsecureSkipVerify,
	}
}

func (c Config) timeout(req *Request) time.Duration {
	if req.Client.Timeout > 0 {
		return req.Client.Timeout
	}
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}
