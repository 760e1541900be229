package fetch

import (
	"encoding/base64"

	"github.com/assetnote/httpfetch/pkg/http"
)

// BuildRequest assembles the request descriptor for u.
//
// A host header is injected unless the caller supplied one. Basic auth is taken from the url userinfo
// first, then from n.Auth, and is skipped when the caller supplied an authorization header.
// The dial address is always derived from u, so a custom host header can target a virtual host.
func BuildRequest(u *URL, n Normalized) *http.Request {
	req := &http.Request{
		URI:     u.Path,
		Scheme:  u.Scheme,
		Method:  n.Method,
		Headers: n.Headers.Clone(),
		Body:    n.Body,
		Client:  n.Client,
	}
	if u.HasQuery {
		req.QueryString = u.Query
	}
	req.Client.Addr = u.Address()

	if !req.Headers.Has("host") {
		req.Headers.Set("host", u.HostHeader())
	}
	if !req.Headers.Has("authorization") {
		if user, pass, ok := credentials(u, n.Auth); ok {
			req.Headers.Set("authorization", basicAuth(user, pass))
		}
	}
	return req
}

// credentials picks the url userinfo over the configured auth. A url user without a password
// authenticates with an empty password.
func credentials(u *URL, auth *Auth) (string, string, bool) {
	if u.HasUser {
		return u.User, u.Pass, true
	}
	if auth != nil {
		return auth.Username, auth.Password, true
	}
	return "", "", false
}

func basicAuth(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}
