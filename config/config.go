package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for docseek.
type Config struct {
	Index   IndexConfig   `yaml:"index"`
	Search  SearchConfig  `yaml:"search"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// IndexConfig holds indexing configuration.
type IndexConfig struct {
	Includes  []string `yaml:"includes"`
	Excludes  []string `yaml:"excludes"`
	Recursive bool     `yaml:"recursive"`
	Workers   int      `yaml:"workers"` // 0 = one per CPU
	Format    string   `yaml:"format"`  // "json", "yaml", "bolt"
	Output    string   `yaml:"output"`
}

// SearchConfig holds ranking configuration.
type SearchConfig struct {
	Limit        int  `yaml:"limit"`
	MaxLimit     int  `yaml:"max_limit"`
	IDFSmoothing bool `yaml:"idf_smoothing"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CacheSize       int           `yaml:"cache_size"` // 0 disables the query cache
	CacheTTL        time.Duration `yaml:"cache_ttl"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

var validFormats = []string{"json", "yaml", "bolt"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			Includes:  []string{"*.xhtml", "*.html", "*.htm", "*.xml", "*.txt", "*.md"},
			Excludes:  []string{"**/.git/**", "**/node_modules/**", "**/.docseek/**"},
			Recursive: false,
			Workers:   0,
			Format:    "json",
			Output:    "index.json",
		},
		Search: SearchConfig{
			Limit:        20,
			MaxLimit:     100,
			IDFSmoothing: false,
		},
		Server: ServerConfig{
			Addr:            ":6969",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			CacheSize:       256,
			CacheTTL:        5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file and applies DOCSEEK_*
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(cfg)
			return cfg, cfg.Validate() // Defaults if no config file
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	return cfg, cfg.Validate()
}

// LoadFromDir loads configuration from a directory (looks for docseek.yaml).
func LoadFromDir(dir string) (*Config, error) {
	// Try docseek.yaml in the directory
	path := filepath.Join(dir, "docseek.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Try .docseek/config.yaml
	path = filepath.Join(dir, ".docseek", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, cfg.Validate()
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	if !slices.Contains(validFormats, c.Index.Format) {
		return fmt.Errorf("index.format %q is not one of %v", c.Index.Format, validFormats)
	}
	if c.Index.Workers < 0 {
		return fmt.Errorf("index.workers must not be negative, got %d", c.Index.Workers)
	}
	if c.Search.Limit < 0 || c.Search.MaxLimit < 0 {
		return fmt.Errorf("search limits must not be negative")
	}
	if c.Server.CacheSize < 0 {
		return fmt.Errorf("server.cache_size must not be negative, got %d", c.Server.CacheSize)
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// applyEnvOverrides reads DOCSEEK_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DOCSEEK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DOCSEEK_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("DOCSEEK_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DOCSEEK_INDEX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Index.Workers = n
		}
	}
	if v := os.Getenv("DOCSEEK_INDEX_FORMAT"); v != "" {
		cfg.Index.Format = v
	}
}
