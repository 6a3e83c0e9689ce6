// Package config loads the YAML configuration of the htmlloader CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-htmlloader/internal/assets"
	"github.com/alnah/go-htmlloader/internal/fileutil"
	"github.com/alnah/go-htmlloader/internal/pipeline"
	"github.com/alnah/go-htmlloader/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field limits.
const (
	MaxPathLength  = 4096
	MaxScopeLength = 64
	MaxWorkers     = 64
)

// DefaultExtension is the extension of generated modules.
const DefaultExtension = ".js"

// Config holds the CLI configuration.
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Transform TransformConfig `yaml:"transform"`
	Assets    AssetsConfig    `yaml:"assets"`
	Workers   int             `yaml:"workers"` // 0 = auto
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Used when no path argument is given
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = next to each template
	Extension  string `yaml:"extension"`  // Empty = ".js"
}

// TransformConfig holds the per-template options.
type TransformConfig struct {
	Scope       string `yaml:"scope"`
	Minimize    bool   `yaml:"minimize"`
	NoHighlight bool   `yaml:"noHighlight"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	Root     string `yaml:"root"`     // Asset root for inlining; empty = template directory
	BasePath string `yaml:"basePath"` // Directory with corpus/{name}.txt; empty = embedded
	Corpus   string `yaml:"corpus"`   // Lorem corpus name; empty = "lorem"
}

// Validate checks values and field lengths. Called by LoadConfig, and by
// the CLI after flags and environment are merged.
func (c *Config) Validate() error {
	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"assets.root", c.Assets.Root, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"transform.scope", c.Transform.Scope, MaxScopeLength},
	} {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if c.Output.Extension != "" {
		if err := fileutil.ValidateExtension(c.Output.Extension); err != nil {
			return fmt.Errorf("%w: output.extension: %w", ErrInvalidValue, err)
		}
	}
	if c.Transform.Scope != "" && !pipeline.ValidScopeName(c.Transform.Scope) {
		return fmt.Errorf("%w: transform.scope: %q", ErrInvalidValue, c.Transform.Scope)
	}
	if c.Assets.Corpus != "" {
		if err := assets.ValidateAssetName(c.Assets.Corpus); err != nil {
			return fmt.Errorf("%w: assets.corpus: %w", ErrInvalidValue, err)
		}
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}
	return nil
}

// Extension returns the output extension with its leading dot.
func (c *Config) Extension() string {
	ext := c.Output.Extension
	if ext == "" {
		return DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// CorpusName returns the lorem corpus name.
func (c *Config) CorpusName() string {
	if c.Assets.Corpus == "" {
		return assets.DefaultCorpus
	}
	return c.Assets.Corpus
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Output:    OutputConfig{Extension: DefaultExtension},
		Transform: TransformConfig{Scope: pipeline.ScopeNone},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NotFoundError carries the searched locations of a missing config.
type NotFoundError struct {
	Name  string
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %s (tried %s)", ErrConfigNotFound, e.Name, strings.Join(e.Tried, ", "))
}

func (e *NotFoundError) Unwrap() error { return ErrConfigNotFound }

// resolveConfigPath searches for a config file by name.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/go-htmlloader/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	tried := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		local := name + ext
		if fileutil.FileExists(local) {
			return local, nil
		}
		tried = append(tried, local)
	}

	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			user := filepath.Join(dir, "go-htmlloader", name+ext)
			if fileutil.FileExists(user) {
				return user, nil
			}
			tried = append(tried, user)
		}
	}

	return "", &NotFoundError{Name: name, Tried: tried}
}
