package api

import (
	"net/http"
	"strings"

	"comanda-client/internal/tokenstore"
)

// Unauthenticated endpoints: the authenticator must not attach a (possibly
// stale) token to these.
var skipAuthPaths = []string{
	"/auth/login",
	"/auth/register",
}

// Authenticator is an http.RoundTripper that attaches the current bearer
// token to outbound requests. If no token is stored the request goes out
// unauthenticated and the backend's 401 is mapped upstream; this layer never
// triggers a refresh on its own.
type Authenticator struct {
	Store tokenstore.Store
	Base  http.RoundTripper
}

func NewAuthenticator(store tokenstore.Store, base http.RoundTripper) *Authenticator {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Authenticator{Store: store, Base: base}
}

func (a *Authenticator) RoundTrip(req *http.Request) (*http.Response, error) {
	if a.skip(req.URL.Path) {
		return a.Base.RoundTrip(req)
	}
	token, ok := a.Store.AccessToken()
	if !ok {
		return a.Base.RoundTrip(req)
	}
	// Per-RoundTrip contract the request must not be mutated in place.
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+token)
	return a.Base.RoundTrip(clone)
}

func (a *Authenticator) skip(path string) bool {
	for _, suffix := range skipAuthPaths {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}
