// Package config handles unimoddb configuration loading.
package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete unimoddb configuration
type Config struct {
	// FeedPath is the Unimod XML feed location. A ".gz" suffix is read
	// through a gzip decompressor. Empty means the bundled default feed.
	FeedPath string `json:"feedPath" mapstructure:"feedPath"`

	// CachePath is the durable SQLite cache location. Empty means an
	// in-memory, non-durable cache rebuilt on every construction.
	CachePath string `json:"cachePath" mapstructure:"cachePath"`

	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultFeedName is the bundled feed file looked up when no feed path is set.
const DefaultFeedName = "unimod.xml"

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		FeedPath:  "",
		CachePath: "",
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// Load loads configuration from unimoddb.yaml in dir, with UNIMODDB_*
// environment variables taking precedence over the file. A missing file
// yields the defaults.
func Load(dir string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("feedPath", "")
	v.SetDefault("cachePath", "")
	v.SetDefault("logging.format", "human")
	v.SetDefault("logging.level", "info")

	// Configure viper
	v.SetConfigName("unimoddb")
	v.SetConfigType("yaml")
	if dir == "" {
		dir = "."
	}
	v.AddConfigPath(dir)

	v.SetEnvPrefix("UNIMODDB")
	v.AutomaticEnv()
	_ = v.BindEnv("feedPath", "UNIMODDB_FEED_PATH")
	_ = v.BindEnv("cachePath", "UNIMODDB_CACHE_PATH")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// Missing file falls through to defaults plus env overrides
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ResolveFeedPath returns the configured feed path, or the bundled default
// next to dir when none is configured.
func (c *Config) ResolveFeedPath(dir string) string {
	if c.FeedPath != "" {
		return c.FeedPath
	}
	return filepath.Join(dir, DefaultFeedName)
}
