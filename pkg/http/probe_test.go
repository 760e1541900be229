package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNativeSupported(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want bool
	}{
		{"empty", nil, true},
		{"http proxy", map[string]string{"HTTP_PROXY": "http://proxy"}, false},
		{"all proxy lower", map[string]string{"all_proxy": "socks5://proxy"}, false},
		{"forced stream", map[string]string{TransportEnv: "stream"}, false},
		{"forced stream upper", map[string]string{TransportEnv: " STREAM "}, false},
		{"forced native with proxy", map[string]string{TransportEnv: "native", "https_proxy": "http://proxy"}, true},
		{"unknown value", map[string]string{TransportEnv: "curl"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NativeSupported(func(k string) string { return tt.env[k] })
			assert.Equal(t, tt.want, got)
		})
	}
}
