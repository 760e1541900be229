package fetch

import (
	"fmt"
	"os"
	"sync"

	"github.com/assetnote/httpfetch/pkg/http"
	"github.com/assetnote/httpfetch/pkg/log"
)

// Probe constructs the handler a Registry falls back to
type Probe func() http.Handler

// Registry holds the process wide default handler. The handler is built by the probe on first use
// and cached until it is replaced or reset.
type Registry struct {
	mu      sync.RWMutex
	handler http.Handler
	probe   Probe
}

// NewRegistry creates an empty registry. A nil probe uses DefaultProbe
func NewRegistry(probe Probe) *Registry {
	if probe == nil {
		probe = DefaultProbe
	}
	return &Registry{probe: probe}
}

// Handler returns the current handler, running the probe when none is set. A probe returning nil is
// replaced by DefaultProbe. Concurrent first calls observe the same handler
func (r *Registry) Handler() http.Handler {
	r.mu.RLock()
	h := r.handler
	r.mu.RUnlock()
	if h != nil {
		return h
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handler == nil {
		r.handler = r.probe()
		if r.handler == nil {
			log.Warn().Msg("probe returned no handler. falling back to the default probe")
			r.handler = DefaultProbe()
		}
		log.Debug().Str("handler", fmt.Sprintf("%T", r.handler)).Msg("constructed default handler")
	}
	return r.handler
}

// SetHandler replaces the handler. A nil handler resets the registry so the next Handler call probes again
func (r *Registry) SetHandler(h http.Handler) {
	r.mu.Lock()
	r.handler = h
	r.mu.Unlock()
}

// NewProbe returns a probe picking the FastHandler when http.NativeSupported allows it and the
// StreamHandler otherwise. Both are built with conf.
func NewProbe(conf http.Config, getenv func(string) string) Probe {
	return func() http.Handler {
		if http.NativeSupported(getenv) {
			return http.NewFastHandler(conf)
		}
		return http.NewStreamHandler(conf)
	}
}

// DefaultProbe probes the process environment with the default handler config
func DefaultProbe() http.Handler {
	return NewProbe(http.NewDefaultConfig(), os.Getenv)()
}

var defaultRegistry = NewRegistry(DefaultProbe)

// DefaultRegistry returns the registry used by the package level functions
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// DefaultHandler returns the process wide default handler
func DefaultHandler() http.Handler {
	return defaultRegistry.Handler()
}

// SetDefaultHandler replaces the process wide default handler. nil resets it
func SetDefaultHandler(h http.Handler) {
	defaultRegistry.SetHandler(h)
}
