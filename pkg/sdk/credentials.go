package sdk

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

// SessionCookieName is the cookie EasyAuth keeps its session in.
const SessionCookieName = "AppServiceAuthSession"

// Credentials is what a sign-in leaves behind for later runs.
type Credentials struct {
	// SessionCookie is the EasyAuth session cookie value.
	SessionCookie string `json:"session_cookie,omitempty"`
	CookieName    string `json:"cookie_name,omitempty"`
	// BearerToken is set by the direct sign-in, which skips EasyAuth.
	BearerToken string    `json:"bearer_token,omitempty"`
	Environment string    `json:"environment"`
	SavedAt     time.Time `json:"saved_at"`
}

// Empty reports whether the credentials hold neither a cookie nor a token.
func (c *Credentials) Empty() bool {
	return c == nil || (c.SessionCookie == "" && c.BearerToken == "")
}

// CredentialStore persists Credentials between runs.
type CredentialStore interface {
	SaveCredentials(*Credentials) error
	LoadCredentials() (*Credentials, error)
	DeleteCredentials() error
}

// NewCookieJar returns a jar seeded with the session cookie for both the
// identity origin and the API origin. Nil credentials give an empty jar.
func NewCookieJar(settings Settings, creds *Credentials) (http.CookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if creds == nil || creds.SessionCookie == "" {
		return jar, nil
	}

	name := creds.CookieName
	if name == "" {
		name = SessionCookieName
	}
	for _, origin := range []string{settings.IdentityOrigin(), settings.APIURL} {
		u, err := url.Parse(origin)
		if err != nil {
			return nil, fmt.Errorf("invalid origin %q: %w", origin, err)
		}
		jar.SetCookies(u, []*http.Cookie{{
			Name:     name,
			Value:    creds.SessionCookie,
			Path:     "/",
			Secure:   u.Scheme == "https",
			HttpOnly: true,
		}})
	}
	return jar, nil
}
