package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents spamnb configuration
type Config struct {
	// Corpus location and layout
	Corpus CorpusConfig `yaml:"corpus"`

	// Tokenization settings
	Tokenizer TokenizerConfig `yaml:"tokenizer"`

	// Model persistence settings
	Model ModelConfig `yaml:"model"`

	// Evaluation run settings
	Evaluation EvaluationConfig `yaml:"evaluation"`

	// Metrics store settings
	Metrics MetricsConfig `yaml:"metrics"`

	// Report settings
	Report ReportConfig `yaml:"report"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// CorpusConfig describes where the labeled emails live
type CorpusConfig struct {
	Root       string `yaml:"root"`
	Index      string `yaml:"index"`       // "<label> <path>" per line
	PathPrefix string `yaml:"path_prefix"` // stripped from index paths before joining to root
	Encoding   string `yaml:"encoding"`    // gb18030, gbk, gb2312, hz-gb-2312, utf-8
}

// TokenizerConfig contains segmentation and filtering settings
type TokenizerConfig struct {
	Stopwords     string `yaml:"stopwords"`
	MinTokenRunes int    `yaml:"min_token_runes"`
	DictPath      string `yaml:"dict_path"` // empty = embedded dictionary
	HMM           bool   `yaml:"hmm"`
}

// ModelConfig contains model persistence settings
type ModelConfig struct {
	Dir        string `yaml:"dir"`
	VectorMode string `yaml:"vector_mode"` // count or presence
}

// EvaluationConfig contains default run sizes
type EvaluationConfig struct {
	TrainNum     int   `yaml:"train_num"`
	TestNum      int   `yaml:"test_num"`
	SampleWindow int   `yaml:"sample_window"` // test indices are drawn from [train_num, train_num+sample_window)
	Seed         int64 `yaml:"seed"`          // 0 = seed from clock
}

// MetricsConfig selects and configures the metrics store
type MetricsConfig struct {
	Backend string      `yaml:"backend"` // json, redis, sql
	Path    string      `yaml:"path"`    // json backend file
	Redis   RedisConfig `yaml:"redis"`
	SQL     SQLConfig   `yaml:"sql"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	URL       string `yaml:"url"`
	KeyPrefix string `yaml:"key_prefix"`
	Database  int    `yaml:"database"`
}

// SQLConfig contains database settings
type SQLConfig struct {
	Driver string `yaml:"driver"` // sqlite3, mysql, postgres
	DSN    string `yaml:"dsn"`
}

// ReportConfig contains report output settings
type ReportConfig struct {
	Output string `yaml:"output"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Root:       "./trec06c",
			Index:      "./trec06c/full/index",
			PathPrefix: "../",
			Encoding:   "gb18030",
		},
		Tokenizer: TokenizerConfig{
			Stopwords:     "./stopwords.txt",
			MinTokenRunes: 2,
			DictPath:      "",
			HMM:           true,
		},
		Model: ModelConfig{
			Dir:        "./model",
			VectorMode: "count",
		},
		Evaluation: EvaluationConfig{
			TrainNum:     1000,
			TestNum:      200,
			SampleWindow: 30000,
			Seed:         0,
		},
		Metrics: MetricsConfig{
			Backend: "json",
			Path:    "result.json",
			Redis: RedisConfig{
				URL:       "redis://localhost:6379",
				KeyPrefix: "spamnb",
				Database:  0,
			},
			SQL: SQLConfig{
				Driver: "sqlite3",
				DSN:    "spamnb.db",
			},
		},
		Report: ReportConfig{
			Output: "result.xlsx",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from file
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	config := DefaultConfig()

	// If no config file specified, return defaults
	if configPath == "" {
		return config, nil
	}

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

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
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
	if c.Corpus.Root == "" || c.Corpus.Index == "" {
		return fmt.Errorf("corpus root and index must be set")
	}

	if c.Tokenizer.MinTokenRunes < 1 {
		return fmt.Errorf("min_token_runes must be >= 1")
	}

	if c.Model.Dir == "" {
		return fmt.Errorf("model dir must be set")
	}
	if c.Model.VectorMode != "count" && c.Model.VectorMode != "presence" {
		return fmt.Errorf("vector_mode must be 'count' or 'presence'")
	}

	if c.Evaluation.TrainNum < 1 {
		return fmt.Errorf("train_num must be >= 1")
	}
	if c.Evaluation.TestNum < 1 {
		return fmt.Errorf("test_num must be >= 1")
	}
	if c.Evaluation.SampleWindow < 1 {
		return fmt.Errorf("sample_window must be >= 1")
	}

	switch c.Metrics.Backend {
	case "json":
		if c.Metrics.Path == "" {
			return fmt.Errorf("metrics path cannot be empty for the json backend")
		}
	case "redis":
		if c.Metrics.Redis.URL == "" {
			return fmt.Errorf("metrics redis url cannot be empty")
		}
	case "sql":
		switch c.Metrics.SQL.Driver {
		case "sqlite3", "mysql", "postgres":
		default:
			return fmt.Errorf("unsupported sql driver: %s", c.Metrics.SQL.Driver)
		}
		if c.Metrics.SQL.DSN == "" {
			return fmt.Errorf("metrics sql dsn cannot be empty")
		}
	default:
		return fmt.Errorf("unknown metrics backend: %s", c.Metrics.Backend)
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

	return nil
}
