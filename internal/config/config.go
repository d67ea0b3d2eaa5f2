package config

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/docsync/internal/foundation/errors"
	"git.home.luguber.info/inful/docsync/internal/normalize"
)

// DefaultConfigFile is looked up in the working directory when no path is given.
const DefaultConfigFile = "docsync.yaml"

// Default paths, relative to the working directory. The destination is the
// "docs" section inside the site's content collection, which is cleared as a
// whole before every run.
const (
	DefaultSource      = "../docs"
	DefaultClearRoot   = "src/content/docs"
	DefaultDestination = "src/content/docs/docs"

	DefaultDebounce = 300 * time.Millisecond
)

// Config represents the application configuration.
type Config struct {
	Version   string          `yaml:"version,omitempty"`
	Paths     PathsConfig     `yaml:"paths"`
	Normalize NormalizeConfig `yaml:"normalize"`
	Watch     WatchConfig     `yaml:"watch"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// PathsConfig holds the filesystem locations the sync operates on.
type PathsConfig struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
	ClearRoot   string `yaml:"clear_root"` // Deleted before mirroring; must contain Destination
}

// NormalizeConfig controls frontmatter normalization.
type NormalizeConfig struct {
	DefaultTitle string `yaml:"default_title"`
	UnicodeNFC   bool   `yaml:"unicode_nfc,omitempty"`
}

// Options converts the config to normalizer options.
func (n NormalizeConfig) Options() normalize.Options {
	return normalize.Options{DefaultTitle: n.DefaultTitle, UnicodeNFC: n.UnicodeNFC}
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const initHeader = `# docsync configuration. Paths are relative to the working directory.
# Values may reference environment variables, e.g. ${DOCS_DIR}.
`

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	_ = applyDefaults(cfg)
	return cfg
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	slog.Debug("Loaded configuration", "path", configPath)
	return cfg, nil
}

// LoadOrDefault loads configPath when given. With an empty path it loads
// DefaultConfigFile if present and otherwise returns the defaults.
func LoadOrDefault(configPath string) (*Config, error) {
	if configPath != "" {
		return Load(configPath)
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return Load(DefaultConfigFile)
	}

	loadEnvFile()
	cfg := Default()
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML configuration, expanding environment variables first,
// then applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}

	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init creates a new configuration file with the default settings.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.NewError(ferrors.CategoryValidation, "configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	cfg := Default()
	cfg.Version = "1"

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal config").Build()
	}

	if err := os.WriteFile(configPath, append([]byte(initHeader), data...), 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
