package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment" validate:"oneof=development production testing"`
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Chunking    ChunkingConfig  `toml:"chunking"`
	Retrieval   RetrievalConfig `toml:"retrieval"`
	Upload      UploadConfig    `toml:"upload"`
	Claude      ClaudeConfig    `toml:"claude"`
	Gemini      GeminiConfig    `toml:"gemini"`
	Cleanup     CleanupConfig   `toml:"cleanup"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=1,max=65535"`
	Host string `toml:"host" validate:"required"`
}

type StorageConfig struct {
	// VectorDir is the root of the vector store. One sub-directory per
	// document ID; collections are rediscovered by listing this directory.
	VectorDir string `toml:"vector_dir" validate:"required"`
	// UploadDir holds per-request temp files during PDF processing.
	UploadDir string `toml:"upload_dir" validate:"required"`
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"`
	Output []string `toml:"output"` // "stdout", "file"
}

// ChunkingConfig controls how extracted text is split before embedding.
type ChunkingConfig struct {
	ChunkSize         int  `toml:"chunk_size" validate:"min=1"`
	ChunkOverlap      int  `toml:"chunk_overlap" validate:"min=1"`
	PreserveSentences bool `toml:"preserve_sentences"`
}

// RetrievalConfig controls top-k retrieval and context assembly.
type RetrievalConfig struct {
	K               int `toml:"k" validate:"min=1"`
	MaxContextChars int `toml:"max_context_chars" validate:"min=1"`
}

type UploadConfig struct {
	MaxFileSizeBytes int64 `toml:"max_file_size_bytes" validate:"min=1"`
}

// ClaudeConfig holds generation provider settings.
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float32 `toml:"temperature" validate:"min=0,max=2"`
	MaxTokens   int     `toml:"max_tokens"`
	Timeout     string  `toml:"timeout"`
}

// GeminiConfig holds embedding provider settings.
type GeminiConfig struct {
	APIKey         string `toml:"api_key"`
	EmbedModel     string `toml:"embed_model"`
	EmbedDimension int    `toml:"embed_dimension" validate:"min=1"`
	Timeout        string `toml:"timeout"`
	// RequestsPerMinute bounds embedding API calls (0 disables limiting).
	RequestsPerMinute int `toml:"requests_per_minute" validate:"min=0"`
}

// CleanupConfig controls the stale upload temp-file janitor.
type CleanupConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // cron format
	MaxAge   string `toml:"max_age"`  // e.g. "1h"
}

// NewDefaultConfig returns configuration defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8000,
			Host: "0.0.0.0",
		},
		Storage: StorageConfig{
			VectorDir: "./data/vectors",
			UploadDir: "./data/uploads",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Chunking: ChunkingConfig{
			ChunkSize:         1000,
			ChunkOverlap:      150,
			PreserveSentences: true,
		},
		Retrieval: RetrievalConfig{
			K:               4,
			MaxContextChars: 8000,
		},
		Upload: UploadConfig{
			MaxFileSizeBytes: 10 * 1024 * 1024,
		},
		Claude: ClaudeConfig{
			Model:       "claude-sonnet-4-20250514",
			Temperature: 0.1,
			MaxTokens:   1000,
			Timeout:     "30s",
		},
		Gemini: GeminiConfig{
			EmbedModel:        "gemini-embedding-001",
			EmbedDimension:    1536,
			Timeout:           "30s",
			RequestsPerMinute: 60,
		},
		Cleanup: CleanupConfig{
			Enabled:  true,
			Schedule: "*/10 * * * *",
			MaxAge:   "1h",
		},
	}
}

// LoadFromFiles loads configuration with precedence:
// defaults -> file1 -> file2 -> ... -> environment variables.
// Later config files override earlier ones.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("SMARTDOCS_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("SMARTDOCS_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("SMARTDOCS_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if dir := os.Getenv("SMARTDOCS_VECTOR_DIR"); dir != "" {
		config.Storage.VectorDir = dir
	}
	if dir := os.Getenv("SMARTDOCS_UPLOAD_DIR"); dir != "" {
		config.Storage.UploadDir = dir
	}

	// Logging configuration
	if level := os.Getenv("SMARTDOCS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	// Chunking configuration
	if size := os.Getenv("SMARTDOCS_CHUNK_SIZE"); size != "" {
		if s, err := strconv.Atoi(size); err == nil {
			config.Chunking.ChunkSize = s
		}
	}
	if overlap := os.Getenv("SMARTDOCS_CHUNK_OVERLAP"); overlap != "" {
		if o, err := strconv.Atoi(overlap); err == nil {
			config.Chunking.ChunkOverlap = o
		}
	}

	// Retrieval configuration
	if k := os.Getenv("SMARTDOCS_RETRIEVAL_K"); k != "" {
		if v, err := strconv.Atoi(k); err == nil {
			config.Retrieval.K = v
		}
	}
	if chars := os.Getenv("SMARTDOCS_MAX_CONTEXT_CHARS"); chars != "" {
		if v, err := strconv.Atoi(chars); err == nil {
			config.Retrieval.MaxContextChars = v
		}
	}

	// Provider API keys (env takes precedence over config file values so
	// secrets never need to live in the TOML)
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if model := os.Getenv("SMARTDOCS_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if model := os.Getenv("SMARTDOCS_EMBED_MODEL"); model != "" {
		config.Gemini.EmbedModel = model
	}
	if dim := os.Getenv("SMARTDOCS_EMBED_DIMENSION"); dim != "" {
		if d, err := strconv.Atoi(dim); err == nil {
			config.Gemini.EmbedDimension = d
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks structural configuration constraints. API keys are not
// required here; their absence surfaces as a ConfigurationError at the first
// operation that needs them.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return &ConfigurationError{Code: "invalid_config", Message: err.Error()}
	}

	if c.Chunking.ChunkOverlap >= c.Chunking.ChunkSize {
		return &ConfigurationError{
			Code:    "invalid_chunking",
			Message: fmt.Sprintf("chunk_overlap (%d) must be less than chunk_size (%d)", c.Chunking.ChunkOverlap, c.Chunking.ChunkSize),
		}
	}

	for _, section := range []struct {
		name, value string
	}{
		{"claude.timeout", c.Claude.Timeout},
		{"gemini.timeout", c.Gemini.Timeout},
		{"cleanup.max_age", c.Cleanup.MaxAge},
	} {
		if _, err := time.ParseDuration(section.value); err != nil {
			return &ConfigurationError{
				Code:    "invalid_duration",
				Message: fmt.Sprintf("%s: %v", section.name, err),
			}
		}
	}

	return nil
}

// IsProduction returns true when running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
