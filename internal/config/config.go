// Package config provides hierarchical configuration management for
// changeforge using koanf. Configuration is loaded with priority:
// environment variables > project config (.changeforge.yml) > user config
// (~/.config/changeforge/config.yml) > defaults. Project config may also
// be JSON (.changeforge.json).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Configuration holds all changeforge settings.
type Configuration struct {
	// Project is the name shown in the changelog header. Defaults to
	// the repository directory name when empty.
	Project string `koanf:"project" yaml:"project"`

	// RepoURL enables version comparison links in markdown output
	// (e.g. https://github.com/owner/repo). Empty disables links.
	RepoURL string `koanf:"repo_url" yaml:"repo_url"`

	// Output is the changelog file path. Empty selects a default per
	// format (CHANGELOG.md, CHANGELOG.txt, CHANGELOG.yaml).
	Output string `koanf:"output" yaml:"output"`

	// Format selects the output document format: markdown, text, or tree.
	Format string `koanf:"format" yaml:"format"`

	// Backup controls whether an existing output file is renamed to a
	// timestamped backup before being replaced.
	Backup bool `koanf:"backup" yaml:"backup"`

	// IncludeHashes appends short commit ids to rendered entries.
	IncludeHashes bool `koanf:"include_hashes" yaml:"include_hashes"`

	// DateFormat is the Go time layout for release dates.
	DateFormat string `koanf:"date_format" yaml:"date_format"`

	// ExcludePatterns are regular expressions; commits whose messages
	// match any of them are dropped from the changelog entirely.
	ExcludePatterns []string `koanf:"exclude_patterns" yaml:"exclude_patterns"`

	// MaxCommits caps how many commits are read from history.
	// Zero means no cap.
	MaxCommits int `koanf:"max_commits" yaml:"max_commits"`
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectDir is the directory searched for project config files.
	// Defaults to the current working directory.
	ProjectDir string
	// SkipUserConfig disables the user-level config file (for tests).
	SkipUserConfig bool
}

// envPrefix is the environment variable namespace, e.g.
// CHANGEFORGE_FORMAT=text or CHANGEFORGE_EXCLUDE_PATTERNS for overrides.
const envPrefix = "CHANGEFORGE_"

// Load loads configuration for the given project directory.
// Priority: environment variables > project config > user config > defaults.
func Load(projectDir string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectDir: projectDir})
}

// LoadWithOptions loads configuration with custom options.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range Defaults() {
		_ = k.Set(key, value)
	}

	if !opts.SkipUserConfig {
		if err := loadUserConfig(k); err != nil {
			return nil, err
		}
	}

	if err := loadProjectConfig(k, opts.ProjectDir); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment config: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := ValidateValues(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadUserConfig loads ~/.config/changeforge/config.yml when present.
func loadUserConfig(k *koanf.Koanf) error {
	path, err := UserConfigPath()
	if err != nil {
		return nil
	}
	if !fileExists(path) {
		return nil
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("loading user config %s: %w", path, err)
	}
	return nil
}

// loadProjectConfig loads the project config from the given directory.
// YAML (.changeforge.yml) is preferred; JSON (.changeforge.json) is the
// fallback.
func loadProjectConfig(k *koanf.Koanf, dir string) error {
	if dir == "" {
		dir = "."
	}

	yamlPath := filepath.Join(dir, ProjectConfigName)
	jsonPath := filepath.Join(dir, ProjectConfigJSONName)

	switch {
	case fileExists(yamlPath):
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading project config %s: %w", yamlPath, err)
		}
	case fileExists(jsonPath):
		if err := k.Load(file.Provider(jsonPath), json.Parser()); err != nil {
			return fmt.Errorf("loading project config %s: %w", jsonPath, err)
		}
	}
	return nil
}

// envTransform maps CHANGEFORGE_DATE_FORMAT to the date_format key.
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, envPrefix))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
