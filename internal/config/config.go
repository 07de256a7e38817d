// Package config loads service settings from defaults, an optional YAML
// file and the environment, in that order of precedence (last wins).
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete service configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Grammar    GrammarConfig    `yaml:"grammar"`
	Redis      RedisConfig      `yaml:"redis"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

// DictionaryConfig locates the word lists.
type DictionaryConfig struct {
	LexiconPath     string `yaml:"lexicon_path"`
	FrequencyPath   string `yaml:"frequency_path"`
	FrequencyDSN    string `yaml:"frequency_dsn"`
	FrequencyTable  string `yaml:"frequency_table"`
	WordNetDir      string `yaml:"wordnet_dir"`
	MaxEditDistance int    `yaml:"max_edit_distance"`
	PrefixLength    int    `yaml:"prefix_length"`
}

// GrammarConfig contains grammar engine settings
type GrammarConfig struct {
	Enabled   bool          `yaml:"enabled"`
	URL       string        `yaml:"url"`
	Language  string        `yaml:"language"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"`
	Burst     int           `yaml:"burst"`
}

// RedisConfig locates the optional domain-term store. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 5000,
		},
		Dictionary: DictionaryConfig{
			LexiconPath:     "dict1.csv",
			FrequencyPath:   "frequency.txt",
			FrequencyTable:  "word_frequency",
			MaxEditDistance: 4,
			PrefixLength:    7,
		},
		Grammar: GrammarConfig{
			Enabled:  true,
			URL:      "http://localhost:8081/v2",
			Language: "en-US",
			Timeout:  10 * time.Second,
			Burst:    1,
		},
		Redis: RedisConfig{
			Key: "custom_dict",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Host = GetEnv("WEB_HOST", c.Server.Host)
	c.Server.Port = GetEnvInt("WEB_PORT", c.Server.Port)
	c.Server.APIKey = GetEnv("WEB_API_KEY", c.Server.APIKey)

	c.Dictionary.LexiconPath = GetEnv("LEXICON_PATH", c.Dictionary.LexiconPath)
	c.Dictionary.FrequencyPath = GetEnv("FREQUENCY_PATH", c.Dictionary.FrequencyPath)
	c.Dictionary.FrequencyDSN = GetEnv("FREQUENCY_DSN", c.Dictionary.FrequencyDSN)
	c.Dictionary.FrequencyTable = GetEnv("FREQUENCY_TABLE", c.Dictionary.FrequencyTable)
	c.Dictionary.WordNetDir = GetEnv("WORDNET_DIR", c.Dictionary.WordNetDir)
	c.Dictionary.MaxEditDistance = GetEnvInt("SYMSPELL_MAX_EDIT_DISTANCE", c.Dictionary.MaxEditDistance)
	c.Dictionary.PrefixLength = GetEnvInt("SYMSPELL_PREFIX_LENGTH", c.Dictionary.PrefixLength)

	c.Grammar.Enabled = GetEnvBool("GRAMMAR_ENABLED", c.Grammar.Enabled)
	c.Grammar.URL = GetEnv("LANGUAGETOOL_URL", c.Grammar.URL)
	c.Grammar.Language = GetEnv("LANGUAGETOOL_LANGUAGE", c.Grammar.Language)
	c.Grammar.Timeout = GetEnvDuration("GRAMMAR_TIMEOUT", c.Grammar.Timeout)
	c.Grammar.RateLimit = GetEnvFloat("GRAMMAR_RATE_LIMIT", c.Grammar.RateLimit)
	c.Grammar.Burst = GetEnvInt("GRAMMAR_RATE_BURST", c.Grammar.Burst)

	c.Redis.Addr = GetEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = GetEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = GetEnvInt("REDIS_DB", c.Redis.DB)
	c.Redis.Key = GetEnv("REDIS_KEY", c.Redis.Key)

	c.Log.Level = GetEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = GetEnv("LOG_FORMAT", c.Log.Format)
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Dictionary.FrequencyPath == "" && c.Dictionary.FrequencyDSN == "" {
		return fmt.Errorf("a frequency path or frequency dsn is required")
	}
	if c.Grammar.Timeout < 0 {
		return fmt.Errorf("grammar timeout cannot be negative")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}

// NewLogger builds the service logger writing to w. Unknown levels fall back to info.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, _ := ParseLevel(l.Level)
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(l.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
