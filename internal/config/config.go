// Package config loads and validates the process-wide defaults sakurs-go
// falls back to when a caller does not fully specify pkg/sakurs.Options.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kuderr/sakurs-go/internal/logging"
	"gopkg.in/yaml.v3"
)

// Config represents the complete process-wide defaults for sakurs-go.
type Config struct {
	Execution ExecutionConfig   `yaml:"execution"`
	Output    OutputConfig      `yaml:"output"`
	Logging   logging.LogConfig `yaml:"logging"`
}

// ExecutionConfig contains default execution-mode tuning.
type ExecutionConfig struct {
	Mode                   string `yaml:"mode"`      // "sequential", "parallel", "streaming", "adaptive"
	Threads                int    `yaml:"threads"`   // 0 = auto (runtime.NumCPU())
	ChunkKB                int    `yaml:"chunk_kb"`  // advisory parallel chunk size
	StreamChunkMB          int    `yaml:"stream_chunk_mb"`
	StreamReadRateKBPerSec int    `yaml:"stream_read_rate_kb_per_sec"` // 0 = unlimited
}

// OutputConfig contains default output shaping.
type OutputConfig struct {
	Language           string `yaml:"language"`
	PreserveWhitespace bool   `yaml:"preserve_whitespace"`
	ReturnDetails      bool   `yaml:"return_details"`
	Encoding           string `yaml:"encoding"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Execution: ExecutionConfig{
			Mode:                   "adaptive",
			Threads:                0,
			ChunkKB:                256,
			StreamChunkMB:          4,
			StreamReadRateKBPerSec: 0,
		},
		Output: OutputConfig{
			Language:           "en",
			PreserveWhitespace: false,
			ReturnDetails:      false,
			Encoding:           "utf-8",
		},
		Logging: *logging.DefaultLogConfig(),
	}
}

// LoadConfig loads configuration from file, environment variables, and
// applies validation. An empty configFile triggers a search of common
// locations; a missing optional file is not an error.
func LoadConfig(configFile string) (*Config, error) {
	cfg := DefaultConfig()

	if configFile != "" {
		if err := loadFromFile(cfg, configFile); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		configPaths := []string{"sakurs.yaml", "sakurs.yml", ".sakurs.yaml", ".sakurs.yml"}

		if homeDir, err := os.UserHomeDir(); err == nil {
			configPaths = append(configPaths,
				filepath.Join(homeDir, ".sakurs.yaml"),
				filepath.Join(homeDir, ".sakurs.yml"),
			)
		}

		for _, path := range configPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadFromFile(cfg, path); err != nil {
					return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
				}
				break
			}
		}
	}

	loadFromEnv(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func loadFromFile(cfg *Config, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

func loadFromEnv(cfg *Config) {
	if mode := os.Getenv("SAKURS_EXECUTION_MODE"); mode != "" {
		cfg.Execution.Mode = mode
	}

	if threads := os.Getenv("SAKURS_THREADS"); threads != "" {
		if n, err := strconv.Atoi(threads); err == nil {
			cfg.Execution.Threads = n
		}
	}

	if chunkKB := os.Getenv("SAKURS_CHUNK_KB"); chunkKB != "" {
		if n, err := strconv.Atoi(chunkKB); err == nil {
			cfg.Execution.ChunkKB = n
		}
	}

	if streamMB := os.Getenv("SAKURS_STREAM_CHUNK_MB"); streamMB != "" {
		if n, err := strconv.Atoi(streamMB); err == nil {
			cfg.Execution.StreamChunkMB = n
		}
	}

	if lang := os.Getenv("SAKURS_LANGUAGE"); lang != "" {
		cfg.Output.Language = lang
	}

	if enc := os.Getenv("SAKURS_ENCODING"); enc != "" {
		cfg.Output.Encoding = enc
	}
}

// validateConfig validates the configuration values.
func validateConfig(cfg *Config) error {
	validModes := map[string]bool{
		"sequential": true, "parallel": true, "streaming": true, "adaptive": true,
	}
	if !validModes[cfg.Execution.Mode] {
		return fmt.Errorf(
			"invalid execution mode: %s (valid: sequential, parallel, streaming, adaptive)",
			cfg.Execution.Mode,
		)
	}

	if cfg.Execution.Threads < 0 {
		return fmt.Errorf("threads cannot be negative")
	}

	if cfg.Execution.ChunkKB <= 0 {
		return fmt.Errorf("chunk_kb must be positive")
	}

	if cfg.Execution.StreamChunkMB <= 0 {
		return fmt.Errorf("stream_chunk_mb must be positive")
	}

	if cfg.Execution.StreamReadRateKBPerSec < 0 {
		return fmt.Errorf("stream_read_rate_kb_per_sec cannot be negative")
	}

	validEncodings := map[string]bool{"utf-8": true, "ascii": true, "latin-1": true}
	if !validEncodings[strings.ToLower(cfg.Output.Encoding)] {
		return fmt.Errorf("invalid encoding: %s (valid: utf-8, ascii, latin-1)", cfg.Output.Encoding)
	}

	return nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, filename string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(filename, data, 0o644)
}

// GenerateTemplate generates a template configuration file with comments.
func GenerateTemplate() string {
	cfg := DefaultConfig()
	data, _ := yaml.Marshal(cfg)

	template := `# sakurs-go configuration file
# These values are process-wide defaults applied whenever a caller does not
# explicitly set the corresponding field on sakurs.Options.

` + string(data) + `
# Environment variables that override the above:
# SAKURS_EXECUTION_MODE - sequential, parallel, streaming, adaptive
# SAKURS_THREADS - worker pool size (0 = auto)
# SAKURS_CHUNK_KB - advisory parallel chunk size in KiB
# SAKURS_STREAM_CHUNK_MB - streaming buffer target in MiB
# SAKURS_LANGUAGE - default language code
# SAKURS_ENCODING - default byte-input encoding
`

	return template
}
