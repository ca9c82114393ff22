package config

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	fdlerr "github.com/msto63/fdl/pkg/core/error"
	"github.com/msto63/fdl/pkg/core/log"
)

// EnvConfig names the environment variable holding the config file path
const EnvConfig = "FDL_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Viewer  ViewerConfig  `toml:"viewer" yaml:"viewer"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
	Store   StoreConfig   `toml:"store" yaml:"store"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name      string `toml:"name" yaml:"name"`
	DataDir   string `toml:"data_dir" yaml:"data_dir"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// ViewerConfig holds settings of the interactive tree viewer
type ViewerConfig struct {
	Indent    int      `toml:"indent" yaml:"indent"`
	HideProps bool     `toml:"hide_props" yaml:"hide_props"`
	OpenAll   bool     `toml:"open_all" yaml:"open_all"`
	Debounce  Duration `toml:"debounce" yaml:"debounce"`
}

// ServerConfig holds live-parse server settings
type ServerConfig struct {
	Host           string   `toml:"host" yaml:"host"`
	Port           int      `toml:"port" yaml:"port"`
	ReadTimeout    Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   Duration `toml:"write_timeout" yaml:"write_timeout"`
	PingInterval   Duration `toml:"ping_interval" yaml:"ping_interval"`
	MaxSourceSize  int64    `toml:"max_source_size" yaml:"max_source_size"`
	AllowedOrigins []string `toml:"allowed_origins" yaml:"allowed_origins"`
	CacheSize      int      `toml:"cache_size" yaml:"cache_size"`
	CacheTTL       Duration `toml:"cache_ttl" yaml:"cache_ttl"`
}

// StoreConfig holds snapshot store settings
type StoreConfig struct {
	Path               string `toml:"path" yaml:"path"`
	DisableCompression bool   `toml:"disable_compression" yaml:"disable_compression"`
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

// Default returns a configuration with all defaults applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML file, or YAML for .yaml/.yml paths
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		code := fdlerr.CodeConfig
		if os.IsNotExist(err) {
			code = fdlerr.CodeNotFound
		}
		return nil, fdlerr.Wrap(err, "config file not readable").
			WithCode(code).
			WithDetail("path", path)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		_, err = toml.Decode(string(data), &cfg)
	}
	if err != nil {
		return nil, fdlerr.Wrap(err, "failed to parse config").
			WithCode(fdlerr.CodeConfig).
			WithDetail("path", path)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration from FDL_CONFIG or the first default
// location that exists
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfig)
	if path == "" {
		for _, p := range DefaultPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return nil, fdlerr.New("no config file found, set FDL_CONFIG or create fdl.toml").
			WithCode(fdlerr.CodeNotFound)
	}

	return Load(path)
}

// DefaultPaths lists the locations LoadFromEnv searches
func DefaultPaths() []string {
	paths := []string{
		"./fdl.toml",
		"./configs/fdl.toml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "fdl", "config.toml"))
	}
	return paths
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "fdl"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "warn"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Viewer
	if c.Viewer.Indent == 0 {
		c.Viewer.Indent = 4
	}
	if c.Viewer.Debounce.Duration == 0 {
		c.Viewer.Debounce.Duration = 300 * time.Millisecond
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8420
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 30 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 30 * time.Second
	}
	if c.Server.PingInterval.Duration == 0 {
		c.Server.PingInterval.Duration = 30 * time.Second
	}
	if c.Server.MaxSourceSize == 0 {
		c.Server.MaxSourceSize = 1 << 20
	}
	if c.Server.CacheSize == 0 {
		c.Server.CacheSize = 256
	}
	if c.Server.CacheTTL.Duration == 0 {
		c.Server.CacheTTL.Duration = 10 * time.Minute
	}

	// Store
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(c.General.DataDir, "snapshots.db")
	}
}

// expandEnvVars expands environment variables in path-like values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.Store.Path = os.ExpandEnv(c.Store.Path)
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.General.LogLevel); err != nil {
		return invalid("general.log_level", err.Error())
	}
	if _, err := log.ParseFormat(c.General.LogFormat); err != nil {
		return invalid("general.log_format", err.Error())
	}
	if c.Viewer.Indent < 1 || c.Viewer.Indent > 16 {
		return invalid("viewer.indent", "must be between 1 and 16")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return invalid("server.port", "must be between 1 and 65535")
	}
	if c.Server.MaxSourceSize < 0 {
		return invalid("server.max_source_size", "must not be negative")
	}
	if c.Server.CacheSize < -1 {
		return invalid("server.cache_size", "must be -1 (disabled) or positive")
	}
	return nil
}

// ServerAddress returns host:port of the live-parse server
func (c *Config) ServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Logger builds the application logger from the general section
func (c *Config) Logger() (*log.Logger, error) {
	return log.NewLogger(log.LoggerConfig{
		Name:   c.General.Name,
		Level:  c.General.LogLevel,
		Format: c.General.LogFormat,
	})
}

func invalid(key, reason string) error {
	return fdlerr.Newf("invalid config value %s: %s", key, reason).
		WithCode(fdlerr.CodeConfig).
		WithDetail("key", key)
}
