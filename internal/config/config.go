// Package config loads the optional catkinize configuration file.
//
// Configuration is resolved in this order, later sources winning:
// built-in defaults, the YAML file, environment variables (optionally read
// from .env files), and finally command-line flags applied by the caller.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/catkinize/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = ".catkinize.yaml"

// CurrentVersion is the only supported configuration format version.
const CurrentVersion = "1.0"

// Config is the catkinize configuration file.
type Config struct {
	Version string        `yaml:"version"`
	Logging LoggingConfig `yaml:"logging"`
	Package PackageConfig `yaml:"package"`
}

// LoggingConfig selects log verbosity and encoding.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// PackageConfig holds the package.xml values that a rosbuild manifest does
// not carry.
type PackageConfig struct {
	Version                 string   `yaml:"version"`
	BugtrackerURL           string   `yaml:"bugtracker_url"`
	ArchitectureIndependent bool     `yaml:"architecture_independent"`
	Metapackage             bool     `yaml:"metapackage"`
	Replaces                []string `yaml:"replaces,omitempty"`
	Conflicts               []string `yaml:"conflicts,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		Package: PackageConfig{Version: "0.0.0"},
	}
}

// Load reads configPath on top of the defaults. A missing file is not an error
// unless required is set; environment overrides apply either way.
func Load(configPath string, required bool) (*Config, error) {
	loadEnvFiles()

	cfg := Default()

	data, err := os.ReadFile(configPath) // #nosec G304 -- user-selected config path
	switch {
	case err == nil:
		if err := cfg.decode(data, configPath); err != nil {
			return nil, err
		}
	case os.IsNotExist(err) && !required:
	case os.IsNotExist(err):
		return nil, errors.ConfigError("configuration file not found").
			WithContext("path", configPath).
			Build()
	default:
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read configuration file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}

	applyEnv(cfg)
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte, path string) error {
	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "failed to parse configuration file").
			Fatal().
			WithContext("path", path).
			Build()
	}
	if c.Version != CurrentVersion {
		return errors.ConfigError(fmt.Sprintf("unsupported configuration version: %q (expected %s)", c.Version, CurrentVersion)).
			WithContext("path", path).
			Build()
	}
	return nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Package.Version == "" {
		return errors.ValidationError("package version must not be empty").
			WithContext("field", "package.version").
			Build()
	}
	return nil
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).
			WithContext("path", configPath).
			Build()
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal configuration").Build()
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write configuration file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
