package errors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/assetnote/httpfetch/pkg/log"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"malformed", &MalformedURLError{URL: "foo", Reason: "missing scheme"}, `malformed url "foo": missing scheme`},
		{"malformed wrapped", &MalformedURLError{URL: "::", Reason: "parse", Err: fmt.Errorf("boom")}, `malformed url "::": parse: boom`},
		{"redirects", &TooManyRedirectsError{URL: "http://a/b", Max: 3}, "too many redirects: exceeded 3 while following http://a/b"},
		{"transport", &TransportError{URL: "ftp://a/", Op: "dial", Err: ErrUnsupportedScheme}, "transport error [dial ftp://a/]: unsupported scheme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestUnwrap(t *testing.T) {
	terr := &TransportError{URL: "ftp://a/", Op: "dial", Err: ErrUnsupportedScheme}
	wrapped := fmt.Errorf("outer: %w", terr)
	assert.True(t, errors.Is(wrapped, ErrUnsupportedScheme))

	var got *TransportError
	assert.True(t, errors.As(wrapped, &got))
	assert.Equal(t, "dial", got.Op)

	var merr *multierror.Error
	merr = multierror.Append(merr, fmt.Errorf("one"), fmt.Errorf("two"))
	oerr := &OptionError{Err: merr}
	assert.True(t, errors.As(oerr, &merr))
	assert.Len(t, merr.Errors, 2)
}

func TestPrintError(t *testing.T) {
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	assert.Nil(t, log.SetLevelString("debug"))
	defer func() {
		log.SetOutput(os.Stderr)
		_ = log.SetLevelString("info")
	}()

	var merr *multierror.Error
	merr = multierror.Append(merr,
		&MalformedURLError{URL: "nope", Reason: "missing scheme"},
		&TooManyRedirectsError{URL: "http://x/", Max: 1},
	)
	PrintError(&OptionError{Err: merr}, 0)

	out := buf.String()
	assert.Contains(t, out, "invalid options")
	assert.Contains(t, out, `"url":"nope"`)
	assert.Contains(t, out, `"max":1`)
}
