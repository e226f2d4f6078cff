package crm

import (
	"net/http"
	"time"
)

// AuthScheme is the Authorization header scheme the CRM expects.
const AuthScheme = "Zoho-oauthtoken"

// authTransport injects the bearer credential into every request.
type authTransport struct {
	token string
	base  http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", AuthScheme+" "+t.token)
	return t.base.RoundTrip(clone)
}

// NewHTTPClient returns an *http.Client that attaches the given access
// token to every request and applies a uniform per-request timeout. The
// token is fetched once at startup and never refreshed.
func NewHTTPClient(token string, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &authTransport{token: token, base: http.DefaultTransport},
	}
}
