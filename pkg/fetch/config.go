package fetch

import (
	"fmt"
	"sort"
	"strings"
	"time"

	errors2 "github.com/assetnote/httpfetch/pkg/errors"
	"github.com/assetnote/httpfetch/pkg/http"
	"github.com/hashicorp/go-multierror"
)

const (
	DefaultFollowLocation = true
	DefaultMaxRedirects   = 10
	DefaultMethod         = "GET"
)

// Names of the recognised configuration keys, as accepted by ConfigFromMap
const (
	KeyFollowLocation = "follow_location"
	KeyMaxRedirects   = "max_redirects"
	KeyMethod         = "http_method"
	KeyAuth           = "auth"
	KeyHandler        = "handler"
	KeyHeaders        = "headers"
	KeyBody           = "body"
	KeyTimeout        = "timeout"
	KeyFuture         = "future"
)

var recognisedKeys = map[string]bool{
	KeyFollowLocation: true,
	KeyMaxRedirects:   true,
	KeyMethod:         true,
	KeyAuth:           true,
	KeyHandler:        true,
	KeyHeaders:        true,
	KeyBody:           true,
	KeyTimeout:        true,
	KeyFuture:         true,
}

// Auth holds basic auth credentials. An empty password is still sent
type Auth struct {
	Username string
	Password string
}

// Config is the per call configuration of a fetch. The zero value fetches with the defaults:
// follow up to 10 redirects with a GET.
type Config struct {
	FollowLocation *bool // nil means DefaultFollowLocation
	MaxRedirects   *int  // nil means DefaultMaxRedirects
	Method         string
	Auth           *Auth
	// Handler overrides the registry handler for this call only
	Handler http.Handler

	Headers http.Headers
	Body    []byte
	Timeout time.Duration
	Future  http.Future

	// Extra holds transport specific keys. They are passed untouched to Request.Client.Extra
	Extra map[string]interface{}
}

type ConfigOption func(*Config)

func FollowLocation(v bool) ConfigOption {
	return func(c *Config) {
		c.FollowLocation = &v
	}
}

func MaxRedirects(n int) ConfigOption {
	return func(c *Config) {
		c.MaxRedirects = &n
	}
}

func Method(m string) ConfigOption {
	return func(c *Config) {
		c.Method = m
	}
}

func BasicAuth(username, password string) ConfigOption {
	return func(c *Config) {
		c.Auth = &Auth{Username: username, Password: password}
	}
}

func WithHandler(h http.Handler) ConfigOption {
	return func(c *Config) {
		c.Handler = h
	}
}

// Header adds a request header. Setting host or authorization suppresses the injected values
func Header(k, v string) ConfigOption {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(http.Headers)
		}
		c.Headers.Add(k, v)
	}
}

func Body(b []byte) ConfigOption {
	return func(c *Config) {
		c.Body = b
	}
}

func BodyString(s string) ConfigOption {
	return Body([]byte(s))
}

func Timeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = d
	}
}

// Lazy asks the handler for a deferred response. Handlers without lazy support ignore it
func Lazy() ConfigOption {
	return func(c *Config) {
		c.Future = http.FutureLazy
	}
}

// Extra sets a transport specific key
func Extra(k string, v interface{}) ConfigOption {
	return func(c *Config) {
		if c.Extra == nil {
			c.Extra = make(map[string]interface{})
		}
		c.Extra[k] = v
	}
}

// WithConfig replaces the config built so far with conf. Options after it still apply
func WithConfig(conf Config) ConfigOption {
	return func(c *Config) {
		*c = conf
	}
}

// Validate returns an OptionError listing every invalid field
func (c *Config) Validate() error {
	var merr *multierror.Error
	if c.MaxRedirects != nil && *c.MaxRedirects < 0 {
		merr = multierror.Append(merr, fmt.Errorf("%s must not be negative, got %d", KeyMaxRedirects, *c.MaxRedirects))
	}
	if c.Method != "" && !validMethod(c.Method) {
		merr = multierror.Append(merr, fmt.Errorf("%s %q is not a valid method token", KeyMethod, c.Method))
	}
	if c.Timeout < 0 {
		merr = multierror.Append(merr, fmt.Errorf("%s must not be negative, got %s", KeyTimeout, c.Timeout))
	}
	if c.Future != http.FutureNone && c.Future != http.FutureLazy {
		merr = multierror.Append(merr, fmt.Errorf("%s %q is not supported", KeyFuture, c.Future))
	}
	for _, k := range sortedKeys(c.Extra) {
		if recognisedKeys[k] {
			merr = multierror.Append(merr, fmt.Errorf("extra key %q shadows a recognised option", k))
		}
	}
	if merr != nil {
		return &errors2.OptionError{Err: merr}
	}
	return nil
}

// validMethod reports whether m is an RFC 7230 token
func validMethod(m string) bool {
	for _, r := range m {
		if r > 0x7e || r <= 0x20 || strings.ContainsRune(`"(),/:;<=>?@[\]{}`, r) {
			return false
		}
	}
	return m != ""
}

func sortedKeys(m map[string]interface{}) []string {
	ret := make([]string, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// ConfigFromMap builds a Config from a loosely typed map, such as one decoded from a config file.
// Recognised keys must have a supported type, anything else ends up in Extra.
func ConfigFromMap(m map[string]interface{}) (Config, error) {
	var (
		c    Config
		merr *multierror.Error
	)
	typeErr := func(k string, v interface{}, want string) {
		merr = multierror.Append(merr, fmt.Errorf("%s: expected %s, got %T", k, want, v))
	}

	for _, k := range sortedKeys(m) {
		v := m[k]
		switch k {
		case KeyFollowLocation:
			b, ok := v.(bool)
			if !ok {
				typeErr(k, v, "bool")
				continue
			}
			c.FollowLocation = &b
		case KeyMaxRedirects:
			n, ok := toInt(v)
			if !ok {
				typeErr(k, v, "integer")
				continue
			}
			c.MaxRedirects = &n
		case KeyMethod:
			s, ok := v.(string)
			if !ok {
				typeErr(k, v, "string")
				continue
			}
			c.Method = s
		case KeyAuth:
			a, ok := toAuth(v)
			if !ok {
				typeErr(k, v, "[username, password] pair")
				continue
			}
			c.Auth = a
		case KeyHandler:
			h, ok := v.(http.Handler)
			if !ok {
				typeErr(k, v, "http.Handler")
				continue
			}
			c.Handler = h
		case KeyHeaders:
			h, ok := toHeaders(v)
			if !ok {
				typeErr(k, v, "map of header values")
				continue
			}
			c.Headers = h
		case KeyBody:
			switch b := v.(type) {
			case string:
				c.Body = []byte(b)
			case []byte:
				c.Body = b
			default:
				typeErr(k, v, "string or bytes")
			}
		case KeyTimeout:
			switch d := v.(type) {
			case time.Duration:
				c.Timeout = d
			case string:
				parsed, err := time.ParseDuration(d)
				if err != nil {
					merr = multierror.Append(merr, fmt.Errorf("%s: %w", k, err))
					continue
				}
				c.Timeout = parsed
			default:
				typeErr(k, v, "duration")
			}
		case KeyFuture:
			switch f := v.(type) {
			case string:
				c.Future = http.Future(f)
			case http.Future:
				c.Future = f
			case bool:
				c.Future = http.FutureNone
				if f {
					c.Future = http.FutureLazy
				}
			default:
				typeErr(k, v, "string or bool")
			}
		default:
			if c.Extra == nil {
				c.Extra = make(map[string]interface{})
			}
			c.Extra[k] = v
		}
	}

	if merr != nil {
		return c, &errors2.OptionError{Err: merr}
	}
	return c, c.Validate()
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case float64:
		// json and yaml decoders produce floats
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func toAuth(v interface{}) (*Auth, bool) {
	switch a := v.(type) {
	case Auth:
		return &a, true
	case *Auth:
		return a, a != nil
	case [2]string:
		return &Auth{Username: a[0], Password: a[1]}, true
	case []string:
		if len(a) == 2 {
			return &Auth{Username: a[0], Password: a[1]}, true
		}
	case []interface{}:
		if len(a) == 2 {
			u, uok := a[0].(string)
			p, pok := a[1].(string)
			if uok && pok {
				return &Auth{Username: u, Password: p}, true
			}
		}
	}
	return nil, false
}

func toHeaders(v interface{}) (http.Headers, bool) {
	ret := make(http.Headers)
	switch h := v.(type) {
	case http.Headers:
		for k, vs := range h {
			for _, s := range vs {
				ret.Add(k, s)
			}
		}
	case map[string][]string:
		for k, vs := range h {
			for _, s := range vs {
				ret.Add(k, s)
			}
		}
	case map[string]string:
		for k, s := range h {
			ret.Add(k, s)
		}
	case map[string]interface{}:
		for k, raw := range h {
			switch s := raw.(type) {
			case string:
				ret.Add(k, s)
			case []interface{}:
				for _, item := range s {
					str, ok := item.(string)
					if !ok {
						return nil, false
					}
					ret.Add(k, str)
				}
			case []string:
				for _, str := range s {
					ret.Add(k, str)
				}
			default:
				return nil, false
			}
		}
	default:
		return nil, false
	}
	return ret, true
}
