package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

const (
	// DirName is the per-user directory holding medsafectl state.
	DirName = ".medsafe"
	// FileName is the optional settings override file inside DirName.
	FileName = "config.yaml"

	EnvEnvironment    = "MEDSAFE_ENV"
	EnvToken          = "MEDSAFE_TOKEN"
	EnvNonInteractive = "MEDSAFE_NON_INTERACTIVE"
)

// FileConfig overrides parts of the built-in environment tables. Unset
// fields keep the table value.
type FileConfig struct {
	Environment string               `yaml:"environment"`
	APIURL      string               `yaml:"api_url"`
	AuthURL     string               `yaml:"auth_url"`
	AppVersion  string               `yaml:"app_version"`
	Auth        *sdk.AuthSettings    `yaml:"auth"`
	Features    *sdk.FeatureSettings `yaml:"features"`
}

// Flags are the command-line overrides, highest precedence.
type Flags struct {
	Environment string
	APIURL      string
	AuthURL     string
}

// DefaultPath is ~/.medsafe/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, DirName, FileName), nil
}

// LoadFile reads the override file. A missing file is not an error and
// yields nil.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &fc, nil
}

// Resolve picks the environment table and applies the overrides. The
// precedence is flag, then MEDSAFE_ENV, then the file, then "local".
func Resolve(flags Flags, file *FileConfig) (sdk.Settings, error) {
	if file == nil {
		file = &FileConfig{}
	}

	name := firstSet(flags.Environment, os.Getenv(EnvEnvironment), file.Environment, sdk.EnvLocal)
	settings, err := sdk.SettingsFor(name)
	if err != nil {
		return sdk.Settings{}, err
	}

	if file.APIURL != "" {
		settings.APIURL = file.APIURL
	}
	if file.AuthURL != "" {
		settings.AuthURL = file.AuthURL
	}
	if file.AppVersion != "" {
		settings.AppVersion = file.AppVersion
	}
	if file.Auth != nil {
		settings.Auth = *file.Auth
	}
	if file.Features != nil {
		settings.Features = *file.Features
	}

	if flags.APIURL != "" {
		settings.APIURL = flags.APIURL
	}
	if flags.AuthURL != "" {
		settings.AuthURL = flags.AuthURL
	}

	if err := settings.Validate(); err != nil {
		return sdk.Settings{}, fmt.Errorf("invalid settings for %s: %w", settings.Name, err)
	}
	return settings, nil
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
