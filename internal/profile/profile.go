// Package profile stores the sevactl connection settings in ~/.sevactl.yml.
package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// FileName is the profile file created in the home directory.
const FileName = ".sevactl.yml"

// EnvPrefix marks environment overrides, e.g. SEVACTL_TOKEN.
const EnvPrefix = "SEVACTL_"

// ErrNotLoggedIn is returned when no token has been stored yet.
var ErrNotLoggedIn = errors.New("not logged in: run `sevactl login` first")

// Profile is what sevactl remembers between runs.
type Profile struct {
	BaseURL      string `yaml:"base_url" koanf:"base_url"`
	Token        string `yaml:"token" koanf:"token"`
	User         string `yaml:"user,omitempty" koanf:"user"`
	GotenbergURL string `yaml:"gotenberg_url,omitempty" koanf:"gotenberg_url"`
	OrgName      string `yaml:"org_name,omitempty" koanf:"org_name"`
	RedisAddr    string `yaml:"redis_addr,omitempty" koanf:"redis_addr"`
}

// DefaultPath returns ~/.sevactl.yml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// Load reads path when it exists, then applies SEVACTL_* overrides.
func Load(path string) (*Profile, error) {
	k := koanf.New(".")
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading profile %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing profile %s: %w", path, err)
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}
	p := &Profile{OrgName: "Sevadhara"}
	if err := k.Unmarshal("", p); err != nil {
		return nil, fmt.Errorf("unmarshalling profile: %w", err)
	}
	p.BaseURL = strings.TrimRight(p.BaseURL, "/")
	return p, nil
}

// Save writes the profile readable by the owner only; it carries a token.
func (p *Profile) Save(path string) error {
	data, err := yamlv3.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshalling profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing profile to %s: %w", path, err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("restricting profile %s: %w", path, err)
	}
	return nil
}

// RequireToken reports ErrNotLoggedIn unless both the API URL and a token
// are present.
func (p *Profile) RequireToken() error {
	if p == nil || p.BaseURL == "" || p.Token == "" {
		return ErrNotLoggedIn
	}
	return nil
}
