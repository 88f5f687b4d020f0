package sdk

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Settings is the per-environment constant table the client is built from.
// It mirrors the build-time environment objects of the web front-end.
type Settings struct {
	Name       string          `yaml:"name"`
	APIURL     string          `yaml:"api_url"`
	AuthURL    string          `yaml:"auth_url,omitempty"` // origin hosting /.auth; empty means APIURL
	AppName    string          `yaml:"app_name"`
	AppVersion string          `yaml:"app_version"`
	Auth       AuthSettings    `yaml:"auth"`
	Features   FeatureSettings `yaml:"features"`
}

// AuthSettings describes the identity provider the deployment sits behind.
type AuthSettings struct {
	Enabled     bool     `yaml:"enabled"`
	ClientID    string   `yaml:"client_id"`
	Authority   string   `yaml:"authority"`
	RedirectURI string   `yaml:"redirect_uri"`
	Scopes      []string `yaml:"scopes"`
}

// FeatureSettings are the UI feature toggles.
type FeatureSettings struct {
	FileUpload    bool `yaml:"file_upload"`
	PDFDownload   bool `yaml:"pdf_download"`
	ImageDownload bool `yaml:"image_download"`
}

const (
	EnvLocal      = "local"
	EnvProduction = "production"
)

// LocalSettings returns the development table: local backend, auth disabled.
func LocalSettings() Settings {
	return Settings{
		Name:       EnvLocal,
		APIURL:     "http://localhost:8080",
		AppName:    "MedSafe - Local Development",
		AppVersion: "1.0.0-local",
		Auth: AuthSettings{
			Enabled:     false,
			RedirectURI: "http://localhost:4200",
			Scopes:      []string{"api://your-backend-app-id/access_as_user"},
		},
		Features: FeatureSettings{FileUpload: true, PDFDownload: true, ImageDownload: true},
	}
}

// ProductionSettings returns the Azure App Service table with EasyAuth enabled.
func ProductionSettings() Settings {
	return Settings{
		Name:       EnvProduction,
		APIURL:     "https://medsafe-api-cucqc2bydbezfsfy.italynorth-01.azurewebsites.net",
		AuthURL:    "https://medsafe-frontend-bcf5cvfpcah2geh8.italynorth-01.azurewebsites.net",
		AppName:    "MedSafe - Azure Production",
		AppVersion: "1.0.0",
		Auth: AuthSettings{
			Enabled:     true,
			ClientID:    "5c911c10-3fe4-4569-b466-e79f78cd436f",
			Authority:   "https://login.microsoftonline.com/common",
			RedirectURI: "https://medsafe-frontend-bcf5cvfpcah2geh8.italynorth-01.azurewebsites.net",
			Scopes:      []string{"api://07416fbe-03ed-47c9-a0e8-ea0235166f3b/user_impersonation"},
		},
		Features: FeatureSettings{FileUpload: true, PDFDownload: true, ImageDownload: true},
	}
}

var environments = map[string]func() Settings{
	EnvLocal:      LocalSettings,
	EnvProduction: ProductionSettings,
}

// Environments lists the names accepted by SettingsFor, sorted.
func Environments() []string {
	names := make([]string, 0, len(environments))
	for name := range environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SettingsFor returns the table registered under name.
func SettingsFor(name string) (Settings, error) {
	fn, ok := environments[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Settings{}, fmt.Errorf("unknown environment %q (expected one of: %s)", name, strings.Join(Environments(), ", "))
	}
	return fn(), nil
}

// IdentityOrigin is the origin that serves the /.auth endpoints.
func (s Settings) IdentityOrigin() string {
	if s.AuthURL != "" {
		return strings.TrimRight(s.AuthURL, "/")
	}
	return strings.TrimRight(s.APIURL, "/")
}

// Validate checks that the origins are absolute URLs.
func (s Settings) Validate() error {
	if s.APIURL == "" {
		return fmt.Errorf("api url is required")
	}
	for _, raw := range []string{s.APIURL, s.AuthURL} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid url %q: %w", raw, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("url %q must be absolute", raw)
		}
	}
	return nil
}
