package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables overriding file values,
// e.g. NBSPAM_LOGGING_LEVEL for logging.level.
const EnvPrefix = "NBSPAM"

// Config represents nbspam configuration
type Config struct {
	// Corpus format settings
	Corpus CorpusConfig `yaml:"corpus"`

	// Redis corpus source settings
	Redis RedisConfig `yaml:"redis"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`

	// Report settings
	Report ReportConfig `yaml:"report"`
}

// CorpusConfig describes the flat, tag-delimited corpus format
type CorpusConfig struct {
	StartMarker     string `yaml:"start_marker"`     // begins a message, e.g. <SUBJECT>
	EndMarker       string `yaml:"end_marker"`       // ends a message body, e.g. </BODY>
	MarkupIndicator string `yaml:"markup_indicator"` // any other line containing this is skipped
	MaxLineBytes    int    `yaml:"max_line_bytes"`
}

// RedisConfig contains settings for corpora stored in Redis lists
type RedisConfig struct {
	BatchSize     int `yaml:"batch_size"` // lines fetched per LRANGE
	DialTimeoutMs int `yaml:"dial_timeout_ms"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// ReportConfig contains model report settings
type ReportConfig struct {
	TopWords int `yaml:"top_words"`
}

// DefaultConfig returns nbspam default configuration
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			StartMarker:     "<SUBJECT>",
			EndMarker:       "</BODY>",
			MarkupIndicator: "<",
			MaxLineBytes:    1 << 20,
		},
		Redis: RedisConfig{
			BatchSize:     500,
			DialTimeoutMs: 2000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Report: ReportConfig{
			TopWords: 10,
		},
	}
}

// LoadConfig loads configuration from file, then applies environment overrides
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	config := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}

		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// applyEnv overrides values for which an NBSPAM_* variable is set
func (c *Config) applyEnv() error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	strs := map[string]*string{
		"corpus.start_marker":     &c.Corpus.StartMarker,
		"corpus.end_marker":       &c.Corpus.EndMarker,
		"corpus.markup_indicator": &c.Corpus.MarkupIndicator,
		"logging.level":           &c.Logging.Level,
		"logging.format":          &c.Logging.Format,
	}
	ints := map[string]*int{
		"corpus.max_line_bytes": &c.Corpus.MaxLineBytes,
		"redis.batch_size":      &c.Redis.BatchSize,
		"redis.dial_timeout_ms": &c.Redis.DialTimeoutMs,
		"report.top_words":      &c.Report.TopWords,
	}

	for key, dst := range strs {
		if err := v.BindEnv(key); err != nil {
			return err
		}
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	for key, dst := range ints {
		if err := v.BindEnv(key); err != nil {
			return err
		}
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}

	return nil
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Corpus.StartMarker == "" || c.Corpus.EndMarker == "" {
		return fmt.Errorf("corpus start_marker and end_marker cannot be empty")
	}

	if c.Corpus.StartMarker == c.Corpus.EndMarker {
		return fmt.Errorf("corpus start_marker and end_marker must differ")
	}

	if c.Corpus.MarkupIndicator == "" {
		return fmt.Errorf("corpus markup_indicator cannot be empty")
	}

	if c.Corpus.MaxLineBytes < 1024 {
		return fmt.Errorf("corpus max_line_bytes must be >= 1024")
	}

	if c.Redis.BatchSize < 1 {
		return fmt.Errorf("redis batch_size must be >= 1")
	}

	if c.Redis.DialTimeoutMs < 100 {
		return fmt.Errorf("redis dial_timeout_ms must be >= 100")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	validLevel := false
	for _, level := range validLevels {
		if c.Logging.Level == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid logging format: %s", c.Logging.Format)
	}

	if c.Report.TopWords < 0 {
		return fmt.Errorf("report top_words must be >= 0")
	}

	return nil
}
