package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvContent points assetgate at a local content tree instead of the
// upstream snapshot.
const EnvContent = "ASSETGATE_CONTENT"

const (
	DefaultUpstreamURL = "https://github.com/github/awesome-copilot.git"
	DefaultUpstreamRef = "main"
	DefaultFreshness   = 12 * time.Hour
	DefaultKeep        = 5
)

// Settings is the contents of .assetgate/config.yaml.
type Settings struct {
	Upstream UpstreamSettings `yaml:"upstream"`

	// ContentDir, when set, is loaded as the catalog directly and the
	// upstream snapshot is never fetched. Relative paths are resolved
	// against the repository root.
	ContentDir string `yaml:"content_dir,omitempty"`

	Toggle ToggleSettings `yaml:"toggle"`
	Sync   SyncSettings   `yaml:"sync"`
}

// UpstreamSettings describes where catalog snapshots come from.
type UpstreamSettings struct {
	URL       string        `yaml:"url" validate:"required"`
	Ref       string        `yaml:"ref" validate:"required"`
	Freshness time.Duration `yaml:"freshness" validate:"gte=0"`
	Keep      int           `yaml:"keep" validate:"gte=1"`
}

// ToggleSettings selects the toggle baseline policy.
type ToggleSettings struct {
	Baseline string `yaml:"baseline" validate:"oneof=observed resolver"`
}

// SyncSettings controls mirroring into .github/.
type SyncSettings struct {
	Mirror bool `yaml:"mirror"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() *Settings {
	return &Settings{
		Upstream: UpstreamSettings{
			URL:       DefaultUpstreamURL,
			Ref:       DefaultUpstreamRef,
			Freshness: DefaultFreshness,
			Keep:      DefaultKeep,
		},
		Toggle: ToggleSettings{Baseline: "observed"},
		Sync:   SyncSettings{Mirror: true},
	}
}

// LoadSettings reads path over the defaults. A missing file yields the
// defaults; a malformed or invalid one is an error. $ASSETGATE_CONTENT
// overrides content_dir.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read settings: %w", err)
	default:
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvContent); v != "" {
		s.ContentDir = v
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks field constraints.
func (s *Settings) Validate() error {
	err := validator.New().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid settings: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid settings: %s", strings.Join(msgs, "; "))
}

// Marshal renders the settings as YAML.
func (s *Settings) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}
