package sdk

import (
	"mime"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

// HeaderAppVersion carries the client version on every API call.
const HeaderAppVersion = "X-App-Version"

// SessionState is the part of the session the authorizer reads per request.
type SessionState struct {
	Token *oauth2.Token
}

// StateSource yields the current session state. *Session implements it.
type StateSource interface {
	State() SessionState
}

// Authorizer decorates requests bound for the API origin with the version
// header, the JSON content type, the bearer token and the session cookies.
type Authorizer struct {
	APIOrigin  string
	AppVersion string
	// Jar supplies the provider session cookies. Nil means no cookies.
	Jar http.CookieJar
}

// Applies reports whether the request targets the API origin. The match is
// a plain prefix test on the full URL.
func (a Authorizer) Applies(req *http.Request) bool {
	if req == nil || req.URL == nil || a.APIOrigin == "" {
		return false
	}
	return strings.HasPrefix(req.URL.String(), a.APIOrigin)
}

// Authorize returns the request to send. Requests outside the API origin
// come back as the same value, untouched. API requests are cloned; the
// original is never mutated.
func (a Authorizer) Authorize(req *http.Request, state SessionState) *http.Request {
	if !a.Applies(req) {
		return req
	}

	out := req.Clone(req.Context())
	out.Header.Set(HeaderAppVersion, a.AppVersion)

	if !isMultipart(out.Header.Get("Content-Type")) {
		out.Header.Set("Content-Type", "application/json")
	}

	out.Header.Del("Authorization")
	if state.Token != nil && state.Token.AccessToken != "" {
		state.Token.SetAuthHeader(out)
	}

	if a.Jar != nil {
		for _, c := range a.Jar.Cookies(out.URL) {
			out.AddCookie(c)
		}
	}
	return out
}

func isMultipart(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.HasPrefix(strings.ToLower(contentType), "multipart/form-data")
	}
	return mediaType == "multipart/form-data"
}

// Transport is an http.RoundTripper that runs every request through the
// Authorizer. It adds no retries; errors and statuses pass through as-is.
type Transport struct {
	Base       http.RoundTripper
	Authorizer Authorizer
	Session    StateSource
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	var state SessionState
	if t.Session != nil {
		state = t.Session.State()
	}
	return t.base().RoundTrip(t.Authorizer.Authorize(req, state))
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// NewAuthorizedHTTPClient builds the client used for every API call. The
// cookie jar is attached by the Authorizer rather than by the client, so
// cookies only reach the API origin.
func NewAuthorizedHTTPClient(settings Settings, session StateSource, jar http.CookieJar) *http.Client {
	client := defaultHTTPClient()
	client.Transport = &Transport{
		Authorizer: Authorizer{
			APIOrigin:  strings.TrimRight(settings.APIURL, "/"),
			AppVersion: settings.AppVersion,
			Jar:        jar,
		},
		Session: session,
	}
	return client
}
