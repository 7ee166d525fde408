package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".newsurl"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// OutputSection is the output block of the configuration file.
type OutputSection struct {
	Mode   string `yaml:"mode,omitempty"`
	Layout string `yaml:"layout,omitempty"`
}

// DatabaseSection is the database block of the configuration file.
type DatabaseSection struct {
	// Enabled is a pointer so an explicit false can be told apart from unset.
	Enabled *bool  `yaml:"enabled,omitempty"`
	Dir     string `yaml:"dir,omitempty"`
}

// File represents the structure of the .newsurl configuration file.
// Every field is optional; unset fields keep the built-in defaults.
type File struct {
	Keywords     []string              `yaml:"keywords,omitempty"`
	MatchSummary *bool                 `yaml:"match_summary,omitempty"`
	Adapters     []string              `yaml:"adapters,omitempty"`
	OutputDir    string                `yaml:"output_dir,omitempty"`
	Output       OutputSection         `yaml:"output,omitempty"`
	Dedup        string                `yaml:"dedup,omitempty"`
	Concurrency  int                   `yaml:"concurrency,omitempty"`
	Timeout      time.Duration         `yaml:"timeout,omitempty"`
	RequestDelay *time.Duration        `yaml:"request_delay,omitempty"`
	UserAgent    string                `yaml:"user_agent,omitempty"`
	MaxBodySize  int64                 `yaml:"max_body_size,omitempty"`
	Database     DatabaseSection       `yaml:"database,omitempty"`
	Defaults     SiteConfig            `yaml:"defaults,omitempty"`
	Sites        map[string]SiteConfig `yaml:"sites,omitempty"`
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cf.Sites == nil {
		cf.Sites = make(map[string]SiteConfig)
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. .newsurl in the current directory
// 3. config.yaml in the XDG config directory
// 4. .newsurl in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}
