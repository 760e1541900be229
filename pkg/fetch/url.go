package fetch

import (
	"net"
	"net/url"
	"strconv"
	"strings"

	errors2 "github.com/assetnote/httpfetch/pkg/errors"
	"github.com/assetnote/httpfetch/pkg/http"
)

// URL is a decomposed absolute url
type URL struct {
	Raw    string
	Scheme string // Scheme is always lower case
	Host   string // Host is the bare hostname. IPv6 addresses have no brackets

	Port    int
	HasPort bool

	Path string // Path is the escaped path, "/" when the url has none

	Query    string
	HasQuery bool

	User    string
	Pass    string
	HasUser bool
	HasPass bool
}

// ParseURL decomposes raw into its components. The url must be absolute: a missing scheme
// or host yields a MalformedURLError rather than a guess.
func ParseURL(raw string) (*URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &errors2.MalformedURLError{URL: raw, Reason: "unable to parse", Err: err}
	}
	if u.Scheme == "" {
		return nil, &errors2.MalformedURLError{URL: raw, Reason: "missing scheme"}
	}
	if u.Opaque != "" || u.Hostname() == "" {
		return nil, &errors2.MalformedURLError{URL: raw, Reason: "missing host"}
	}

	ret := &URL{
		Raw:    raw,
		Scheme: strings.ToLower(u.Scheme),
		Host:   u.Hostname(),
		Path:   u.EscapedPath(),
	}
	if ret.Path == "" {
		ret.Path = "/"
	}

	if p := u.Port(); p != "" {
		ret.Port, err = strconv.Atoi(p)
		if err != nil || ret.Port > 65535 {
			return nil, &errors2.MalformedURLError{URL: raw, Reason: "invalid port", Err: err}
		}
		ret.HasPort = true
	}

	if u.RawQuery != "" || u.ForceQuery {
		ret.Query = u.RawQuery
		ret.HasQuery = true
	}

	if u.User != nil {
		ret.User = u.User.Username()
		ret.HasUser = true
		ret.Pass, ret.HasPass = u.User.Password()
	}
	return ret, nil
}

func (u *URL) bracketedHost() string {
	if strings.Contains(u.Host, ":") {
		return "[" + u.Host + "]"
	}
	return u.Host
}

// HostHeader returns host[:port]. The port is dropped when the url has none or when it is the
// conventional port of http or https. Other schemes always keep an explicit port.
func (u *URL) HostHeader() string {
	if !u.HasPort || http.IsDefaultPort(u.Scheme, u.Port) {
		return u.bracketedHost()
	}
	return u.bracketedHost() + ":" + strconv.Itoa(u.Port)
}

// Address returns the host:port to dial, filling in the conventional port when the url has none
func (u *URL) Address() string {
	port := http.DefaultPort(u.Scheme)
	if u.HasPort {
		port = strconv.Itoa(u.Port)
	}
	return net.JoinHostPort(u.Host, port)
}

func (u *URL) String() string {
	return u.Raw
}
