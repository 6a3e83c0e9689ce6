package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alnah/go-htmlloader/internal/config"
)

const envPrefix = "HTMLLOADER_"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // HTMLLOADER_CONFIG: config file name or path
	Scope      string // HTMLLOADER_SCOPE: class scope
	Minimize   string // HTMLLOADER_MINIMIZE: true, false, 1 or 0
	OutputDir  string // HTMLLOADER_OUTPUT_DIR: output directory
	Workers    string // HTMLLOADER_WORKERS: parallel workers
	AssetRoot  string // HTMLLOADER_ASSET_ROOT: asset root
}

// knownEnvVars lists valid HTMLLOADER_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"HTMLLOADER_CONFIG":     true,
	"HTMLLOADER_SCOPE":      true,
	"HTMLLOADER_MINIMIZE":   true,
	"HTMLLOADER_OUTPUT_DIR": true,
	"HTMLLOADER_WORKERS":    true,
	"HTMLLOADER_ASSET_ROOT": true,
}

// loadEnvConfig reads the HTMLLOADER_* variables.
func loadEnvConfig(getenv func(string) string) *envConfig {
	return &envConfig{
		ConfigPath: getenv("HTMLLOADER_CONFIG"),
		Scope:      getenv("HTMLLOADER_SCOPE"),
		Minimize:   getenv("HTMLLOADER_MINIMIZE"),
		OutputDir:  getenv("HTMLLOADER_OUTPUT_DIR"),
		Workers:    getenv("HTMLLOADER_WORKERS"),
		AssetRoot:  getenv("HTMLLOADER_ASSET_ROOT"),
	}
}

// warnUnknownEnvVars reports unrecognized HTMLLOADER_* variables.
// Helps catch typos like HTMLLOADER_SCOPES.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overrides config values with the set variables.
// Precedence: flags > env > config file > defaults; flags are applied later
// by applyFlags.
func applyEnvConfig(env *envConfig, cfg *config.Config) error {
	if env.Scope != "" {
		cfg.Transform.Scope = env.Scope
	}
	if env.Minimize != "" {
		on, err := strconv.ParseBool(env.Minimize)
		if err != nil {
			return fmt.Errorf("%w: HTMLLOADER_MINIMIZE=%q", config.ErrInvalidValue, env.Minimize)
		}
		cfg.Transform.Minimize = on
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Workers != "" {
		n, err := strconv.Atoi(env.Workers)
		if err != nil {
			return fmt.Errorf("%w: HTMLLOADER_WORKERS=%q", config.ErrInvalidValue, env.Workers)
		}
		cfg.Workers = n
	}
	if env.AssetRoot != "" {
		cfg.Assets.Root = env.AssetRoot
	}
	return nil
}

// applyFlags overrides config values with explicitly set flags.
func applyFlags(f *cliFlags, cfg *config.Config) {
	if f.set("output") {
		cfg.Output.DefaultDir = f.output
	}
	if f.set("ext") {
		cfg.Output.Extension = f.ext
	}
	if f.set("workers") {
		cfg.Workers = f.workers
	}
	if f.set("scope") {
		cfg.Transform.Scope = f.scope
	}
	if f.set("minimize") {
		cfg.Transform.Minimize = f.minimize
	}
	if f.set("no-highlight") {
		cfg.Transform.NoHighlight = f.noHighlight
	}
	if f.set("asset-root") {
		cfg.Assets.Root = f.assetRoot
	}
	if f.set("asset-path") {
		cfg.Assets.BasePath = f.assetPath
	}
	if f.set("corpus") {
		cfg.Assets.Corpus = f.corpus
	}
}

// resolveConfig builds the effective configuration.
func resolveConfig(f *cliFlags, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig(env.Getenv)

	cfg := config.DefaultConfig()
	name := f.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if err := applyEnvConfig(envCfg, cfg); err != nil {
		return nil, err
	}
	applyFlags(f, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
