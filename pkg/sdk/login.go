package sdk

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/zitadel/oidc/v3/pkg/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

const (
	// EasyAuthProvider is the provider segment of the EasyAuth login path.
	EasyAuthProvider = "aad"

	defaultTenant = "common"
)

// LoginURL is the EasyAuth sign-in entry point. After sign-in the provider
// sends the browser to redirect with the session cookie set.
func LoginURL(settings Settings, redirect string) string {
	return settings.IdentityOrigin() + "/.auth/login/" + EasyAuthProvider +
		"?post_login_redirect_uri=" + url.QueryEscape(redirect)
}

// EasyAuthLogoutURL ends the EasyAuth session.
func EasyAuthLogoutURL(settings Settings, redirect string) string {
	u := settings.IdentityOrigin() + "/.auth/logout"
	if redirect != "" {
		u += "?post_logout_redirect_uri=" + url.QueryEscape(redirect)
	}
	return u
}

// ProviderLogoutURL ends the Entra ID session and returns to origin.
func ProviderLogoutURL(settings Settings, origin string) string {
	return "https://login.microsoftonline.com/" + Tenant(settings) +
		"/oauth2/v2.0/logout?post_logout_redirect_uri=" + url.QueryEscape(origin)
}

// Tenant extracts the tenant segment of the configured authority.
func Tenant(settings Settings) string {
	u, err := url.Parse(settings.Auth.Authority)
	if err != nil {
		return defaultTenant
	}
	seg, _, _ := strings.Cut(strings.Trim(u.Path, "/"), "/")
	if seg == "" {
		return defaultTenant
	}
	return seg
}

// DirectLogin is a prepared implicit-flow sign-in against Entra ID.
type DirectLogin struct {
	URL   string
	State string
	Nonce string
}

// NewDirectLogin builds the authorize URL that returns the ID token and
// access token in the redirect fragment.
func NewDirectLogin(settings Settings) (*DirectLogin, error) {
	if settings.Auth.ClientID == "" {
		return nil, fmt.Errorf("client id is not configured for environment %q", settings.Name)
	}
	redirect := settings.Auth.RedirectURI
	if redirect == "" {
		redirect = settings.IdentityOrigin() + "/"
	}

	scopes := []string{oidc.ScopeOpenID, oidc.ScopeProfile, oidc.ScopeEmail}
	scopes = append(scopes, settings.Auth.Scopes...)

	conf := &oauth2.Config{
		ClientID:    settings.Auth.ClientID,
		Endpoint:    microsoft.AzureADEndpoint(Tenant(settings)),
		RedirectURL: redirect,
		Scopes:      scopes,
	}

	login := &DirectLogin{
		State: uuid.NewString(),
		Nonce: uuid.NewString(),
	}
	login.URL = conf.AuthCodeURL(login.State,
		oauth2.SetAuthURLParam("response_type", "id_token token"),
		oauth2.SetAuthURLParam("response_mode", "fragment"),
		oauth2.SetAuthURLParam("nonce", login.Nonce),
	)
	return login, nil
}

// ParseRedirect extracts the bearer token from the URL the provider
// redirected to. The ID token wins over the access token.
func (l *DirectLogin) ParseRedirect(redirected string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(redirected))
	if err != nil {
		return "", fmt.Errorf("invalid redirect url: %w", err)
	}
	params, err := url.ParseQuery(u.Fragment)
	if err != nil {
		return "", fmt.Errorf("invalid redirect fragment: %w", err)
	}
	if e := params.Get("error"); e != "" {
		return "", fmt.Errorf("sign-in failed: %s: %s", e, params.Get("error_description"))
	}
	if got := params.Get("state"); got != l.State {
		return "", fmt.Errorf("state mismatch in redirect")
	}
	token := firstNonEmpty(params.Get("id_token"), params.Get("access_token"))
	if token == "" {
		return "", fmt.Errorf("redirect carries no token")
	}
	return token, nil
}
