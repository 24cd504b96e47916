package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/fmwkit/foundation/core/error"
)

// EnvConfigPath names the environment variable holding the config path.
const EnvConfigPath = "FMWKIT_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig           `toml:"general" yaml:"general"`
	Log     LogConfig               `toml:"log" yaml:"log"`
	Cache   CacheConfig             `toml:"cache" yaml:"cache"`
	Servers map[string]ServerConfig `toml:"servers" yaml:"servers"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name        string `toml:"name" yaml:"name"`
	Environment string `toml:"environment" yaml:"environment"`
	DataDir     string `toml:"data_dir" yaml:"data_dir"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	// Output is "stderr", "stdout" or a file path
	Output string `toml:"output" yaml:"output"`
}

// CacheConfig holds the day-keyed document cache settings
type CacheConfig struct {
	// Backend is "file" or "sqlite"
	Backend   string   `toml:"backend" yaml:"backend"`
	Path      string   `toml:"path" yaml:"path"`
	Retention Duration `toml:"retention" yaml:"retention"`
}

// ServerConfig holds the connection settings of one FME Server, looked up
// by label
type ServerConfig struct {
	Host       string   `toml:"host" yaml:"host"`
	Token      string   `toml:"token" yaml:"token"`
	Timeout    Duration `toml:"timeout" yaml:"timeout"`
	Repository string   `toml:"repository" yaml:"repository"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, mdwerror.Newf("config file not found: %s", path).
			WithCode(mdwerror.CodeMissingConfig).
			WithDetail("path", path)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "read config").WithCode(mdwerror.CodeConfigError)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &cfg)
	default:
		_, err = toml.Decode(string(content), &cfg)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeConfigError).
			WithDetail("path", path)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	return &cfg, nil
}

// LoadFromEnv loads configuration from the FMWKIT_CONFIG environment
// variable or the first default location that exists
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		for _, p := range DefaultPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return nil, mdwerror.New("no config file found, set " + EnvConfigPath + " or create configs/fmwkit.toml").
			WithCode(mdwerror.CodeMissingConfig)
	}

	return Load(path)
}

// DefaultPaths lists the locations LoadFromEnv tries in order
func DefaultPaths() []string {
	return []string{
		"./configs/fmwkit.toml",
		"./fmwkit.toml",
		filepath.Join(os.Getenv("HOME"), ".config/fmwkit/config.toml"),
	}
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "fmwkit"
	}
	if c.General.Environment == "" {
		c.General.Environment = "development"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stderr"
	}

	// Cache
	if c.Cache.Backend == "" {
		c.Cache.Backend = "file"
	}
	if c.Cache.Path == "" {
		c.Cache.Path = filepath.Join(c.General.DataDir, "cache")
	}
	if c.Cache.Retention.Duration == 0 {
		c.Cache.Retention.Duration = 30 * 24 * time.Hour
	}

	// Servers
	for label, s := range c.Servers {
		if s.Timeout.Duration == 0 {
			s.Timeout.Duration = 30 * time.Second
		}
		c.Servers[label] = s
	}
}

// expandEnvVars expands environment variables in configuration values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.Log.Output = os.ExpandEnv(c.Log.Output)
	c.Cache.Path = os.ExpandEnv(c.Cache.Path)
	for label, s := range c.Servers {
		s.Host = os.ExpandEnv(s.Host)
		s.Token = os.ExpandEnv(s.Token)
		c.Servers[label] = s
	}
}

// Credentials returns the server settings registered under label
func (c *Config) Credentials(label string) (ServerConfig, error) {
	s, ok := c.Servers[label]
	if !ok {
		return ServerConfig{}, mdwerror.Newf("no server configured for label %q", label).
			WithCode(mdwerror.CodeMissingConfig).
			WithDetail("label", label).
			WithDetail("known", c.ServerLabels())
	}
	if s.Host == "" {
		return ServerConfig{}, mdwerror.Newf("server %q has no host", label).
			WithCode(mdwerror.CodeConfigError).
			WithDetail("label", label)
	}
	return s, nil
}

// ServerLabels returns the configured server labels in sorted order
func (c *Config) ServerLabels() []string {
	labels := make([]string, 0, len(c.Servers))
	for label := range c.Servers {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
