package fetch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/assetnote/httpfetch/pkg/http"
	"github.com/stretchr/testify/assert"
)

func TestRegistryProbesOnce(t *testing.T) {
	var calls int32
	r := NewRegistry(func() http.Handler {
		atomic.AddInt32(&calls, 1)
		return &stubHandler{}
	})

	var wg sync.WaitGroup
	got := make([]http.Handler, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = r.Handler()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, h := range got {
		assert.Same(t, got[0], h)
	}
}

func TestRegistrySetHandler(t *testing.T) {
	r := NewRegistry(func() http.Handler { return &stubHandler{} })
	h := &stubHandler{}

	r.SetHandler(h)
	assert.Same(t, h, r.Handler())
	assert.Same(t, h, r.Handler())

	r.SetHandler(nil)
	fresh := r.Handler()
	assert.NotSame(t, h, fresh)
	assert.Same(t, fresh, r.Handler())
}

func TestDefaultHandler(t *testing.T) {
	prev := DefaultHandler()
	defer SetDefaultHandler(prev)

	h := &stubHandler{}
	SetDefaultHandler(h)
	assert.Same(t, h, DefaultHandler())

	SetDefaultHandler(nil)
	assert.NotSame(t, h, DefaultHandler())
}

func TestNewProbe(t *testing.T) {
	env := func(vals map[string]string) func(string) string {
		return func(k string) string { return vals[k] }
	}
	tests := []struct {
		name   string
		env    map[string]string
		stream bool
	}{
		{"clean environment", nil, false},
		{"proxy", map[string]string{"HTTPS_PROXY": "http://proxy:3128"}, true},
		{"lower case proxy", map[string]string{"http_proxy": "http://proxy:3128"}, true},
		{"forced stream", map[string]string{http.TransportEnv: "stream"}, true},
		{"forced fast with proxy", map[string]string{http.TransportEnv: "fast", "HTTP_PROXY": "http://proxy:3128"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewProbe(http.NewDefaultConfig(), env(tt.env))()
			if tt.stream {
				assert.IsType(t, &http.StreamHandler{}, h)
			} else {
				assert.IsType(t, &http.FastHandler{}, h)
			}
		})
	}
}

func TestRegistryNilProbeResult(t *testing.T) {
	r := NewRegistry(func() http.Handler { return nil })
	h := r.Handler()
	assert.NotNil(t, h)
	assert.Same(t, h, r.Handler())

	resp, err := NewDispatcher(WithRegistry(r)).Fetch(context.Background(), "http://127.0.0.1:1/", Timeout(100*time.Millisecond))
	assert.NoError(t, err)
	assert.NotNil(t, resp)
}
