package fetch

import (
	"context"
	"testing"

	"github.com/assetnote/httpfetch/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortcuts(t *testing.T) {
	stub := &stubHandler{}
	d := NewDispatcher(WithRegistry(NewRegistry(func() http.Handler { return stub })))
	for _, method := range []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"} {
		t.Run(method, func(t *testing.T) {
			fn := d.Shortcut(method)
			require.NotNil(t, fn)
			// the shortcut wins over a method in the options
			_, err := fn(context.Background(), "http://host/", Method("PATCH"))
			require.NoError(t, err)
			assert.Equal(t, method, stub.requests[len(stub.requests)-1].Method)
		})
	}
	assert.Nil(t, d.Shortcut("PATCH"))
}

func TestPostBody(t *testing.T) {
	stub := &stubHandler{}
	_, err := Post(context.Background(), "http://host/", WithHandler(stub), BodyString("foo"))
	require.NoError(t, err)
	require.Len(t, stub.requests, 1)
	assert.Equal(t, "POST", stub.requests[0].Method)
	assert.Equal(t, []byte("foo"), stub.requests[0].Body)
}

func TestShortcutDoesNotModifyOptions(t *testing.T) {
	stub := &stubHandler{}
	opts := make([]ConfigOption, 1, 4)
	opts[0] = WithHandler(stub)
	_, err := Get(context.Background(), "http://host/", opts...)
	require.NoError(t, err)
	_, err = Delete(context.Background(), "http://host/", opts...)
	require.NoError(t, err)
	assert.Equal(t, "GET", stub.requests[0].Method)
	assert.Equal(t, "DELETE", stub.requests[1].Method)
	assert.Len(t, opts, 1)
}
