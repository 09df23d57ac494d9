package api

import (
	"net/http"

	"golang.org/x/oauth2"
)

// bearerTransport adds the current access token to every outgoing request.
type bearerTransport struct {
	base  http.RoundTripper
	token func() string
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.token()
	if token == "" {
		return t.base.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request.
	clone := req.Clone(req.Context())
	(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(clone)
	return t.base.RoundTrip(clone)
}
