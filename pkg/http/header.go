package http

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/francoispqt/gojay"
	"github.com/rs/zerolog"
	"github.com/valyala/bytebufferpool"
)

// Headers maps a lower-cased header name to its ordered values. This is the header representation used
// in both request and response descriptors. Always use the methods to access Headers so the key
// normalization is respected
type Headers map[string][]string

func canonicalKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

// Has reports whether the header is present, regardless of the case of k
func (h Headers) Has(k string) bool {
	_, ok := h[canonicalKey(k)]
	return ok
}

// Get returns the first value for k or an empty string
func (h Headers) Get(k string) string {
	v := h[canonicalKey(k)]
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

// Values returns all the values for k in the order they were added
func (h Headers) Values(k string) []string {
	return h[canonicalKey(k)]
}

// Add appends v to the values of k
func (h Headers) Add(k, v string) {
	k = canonicalKey(k)
	h[k] = append(h[k], v)
}

// Set replaces all the values of k
func (h Headers) Set(k string, v ...string) {
	h[canonicalKey(k)] = append([]string{}, v...)
}

func (h Headers) Del(k string) {
	delete(h, canonicalKey(k))
}

// Clone returns a deep copy. Cloning a nil Headers returns an empty, writable Headers
func (h Headers) Clone() Headers {
	ret := make(Headers, len(h))
	for k, v := range h {
		ret[k] = append([]string{}, v...)
	}
	return ret
}

// Keys returns the header names in sorted order
func (h Headers) Keys() []string {
	ret := make([]string, 0, len(h))
	for k := range h {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

func (h Headers) MarshalZerologObject(e *zerolog.Event) {
	for _, k := range h.Keys() {
		e.Strs(k, h[k])
	}
}

func (h Headers) MarshalJSONObject(enc *gojay.Encoder) {
	for _, k := range h.Keys() {
		enc.ArrayKey(k, headerValues(h[k]))
	}
}

func (h Headers) IsNil() bool {
	return h == nil
}

type headerValues []string

func (v headerValues) MarshalJSONArray(enc *gojay.Encoder) {
	for _, s := range v {
		enc.String(s)
	}
}

func (v headerValues) IsNil() bool {
	return v == nil
}

// Header encapsulates a single header key value entry, e.g. one parsed from the command line
type Header struct {
	Key   string
	Value string
}

// ParseHeader parses a "key: value" string. The value may be empty, the key may not
func ParseHeader(in string) (Header, error) {
	parts := strings.SplitN(in, ":", 2)
	if len(parts) != 2 {
		return Header{}, fmt.Errorf("invalid header %q. expected 'key: value'", in)
	}
	key := strings.TrimSpace(parts[0])
	if key == "" {
		return Header{}, fmt.Errorf("invalid header %q. empty key", in)
	}
	return Header{Key: key, Value: strings.TrimSpace(parts[1])}, nil
}

func (h Header) MarshalZerologObject(e *zerolog.Event) {
	e.Str("k", h.Key).
		Str("v", h.Value)
}

func (h *Header) AppendBytes(b []byte) []byte {
	b = append(b, h.Key...)
	b = append(b, ": "...)
	b = append(b, h.Value...)
	return b
}

func (h *Header) Write(w io.Writer) (int, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	buf.B = h.AppendBytes(buf.B)
	buf.B = append(buf.B, "\r\n"...)
	return w.Write(buf.B)
}

func (h *Header) String() string {
	w := bytebufferpool.Get()
	ret := string(h.AppendBytes(w.B))
	bytebufferpool.Put(w)
	return ret
}
