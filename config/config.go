// Package config provides configuration management for the glint relay.
// It covers the HTTP server, the upstream generation API, the four model
// identifiers, upload and prompt limits, and logging preferences.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete relay configuration.
// It combines server settings, upstream generation API settings, model
// identifiers, request limits, and logging preferences into a single
// structure that is immutable once loaded.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Models   ModelsConfig   `yaml:"models"`
	Limits   LimitsConfig   `yaml:"limits"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds server-specific configuration for the HTTP server.
// It defines timeouts, limits, and operational parameters.
type ServerConfig struct {
	// Port specifies the HTTP server port (default: 8080)
	Port int `yaml:"port"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body (default: 30s)
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. Generation calls can be slow, so this defaults to 120s.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header's keys and values (default: 1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// ShutdownTimeout specifies how long to wait for the server to shutdown
	// gracefully before forcing termination (default: 30s)
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// UpstreamConfig holds settings for the generation API the relay fronts.
type UpstreamConfig struct {
	// Endpoint is the base URL of the generation API
	// (default: https://generativelanguage.googleapis.com/v1beta)
	Endpoint string `yaml:"endpoint"`

	// APIKey authenticates against the generation API.
	// Use environment variables (e.g. ${GEMINI_API_KEY}) in the YAML.
	APIKey string `yaml:"api_key"`

	// Timeout bounds a single generation call (default: 90s)
	Timeout time.Duration `yaml:"timeout"`

	// CircuitBreaker configures failure handling for generation calls
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// CircuitBreakerConfig configures the breaker wrapped around upstream calls.
type CircuitBreakerConfig struct {
	// MaxRequests is the maximum number of requests allowed to pass through
	// while the breaker is half-open
	MaxRequests uint32 `yaml:"max_requests"`

	// Interval is the cyclic period of the closed state for clearing counts
	Interval time.Duration `yaml:"interval"`

	// Timeout is the period of the open state until it becomes half-open
	Timeout time.Duration `yaml:"timeout"`

	// FailureThreshold is the number of consecutive failures needed to trip
	FailureThreshold uint32 `yaml:"failure_threshold"`
}

// ModelsConfig names the model identifier used for each input kind.
// Four identifiers are configured: text, image, audio, and document.
type ModelsConfig struct {
	Text     string `yaml:"text"`
	Image    string `yaml:"image"`
	Audio    string `yaml:"audio"`
	Document string `yaml:"document"`
}

// ForKind returns the model identifier configured for the given input kind.
func (m ModelsConfig) ForKind(kind string) string {
	switch kind {
	case "image":
		return m.Image
	case "audio":
		return m.Audio
	case "document":
		return m.Document
	default:
		return m.Text
	}
}

// LimitsConfig bounds inbound request sizes.
type LimitsConfig struct {
	// MaxUploadBytes caps the in-memory buffering of a single uploaded file
	// (default: 20MB)
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// MaxPromptBytes caps the raw prompt size (default: 512KB)
	MaxPromptBytes int `yaml:"max_prompt_bytes"`

	// MaxPromptTokens caps the tokenized prompt size (default: 8192).
	// Zero disables token counting.
	MaxPromptTokens int `yaml:"max_prompt_tokens"`
}

// DefaultsConfig holds the prompts substituted when a multipart request
// omits its prompt field.
type DefaultsConfig struct {
	ImagePrompt    string `yaml:"image_prompt"`
	DocumentPrompt string `yaml:"document_prompt"`
	AudioPrompt    string `yaml:"audio_prompt"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	// Level sets logging verbosity: debug, info, warn, error
	Level string `yaml:"level"`

	// Format specifies log output format: json or text
	Format string `yaml:"format"`
}

// DefaultConfig returns a configuration with working defaults for every
// section. Loaded YAML is decoded on top of these values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    120 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
		},
		Upstream: UpstreamConfig{
			Endpoint: "https://generativelanguage.googleapis.com/v1beta",
			APIKey:   "${GEMINI_API_KEY}",
			Timeout:  90 * time.Second,
			CircuitBreaker: CircuitBreakerConfig{
				MaxRequests:      5,
				Interval:         60 * time.Second,
				Timeout:          30 * time.Second,
				FailureThreshold: 5,
			},
		},
		Models: ModelsConfig{
			Text:     "gemini-2.0-flash",
			Image:    "gemini-2.0-flash",
			Audio:    "gemini-2.0-flash",
			Document: "gemini-2.0-flash",
		},
		Limits: LimitsConfig{
			MaxUploadBytes:  20 << 20,
			MaxPromptBytes:  512 << 10,
			MaxPromptTokens: 8192,
		},
		Defaults: DefaultsConfig{
			ImagePrompt:    "describe the following image",
			DocumentPrompt: "summarize the following document",
			AudioPrompt:    "transcribe the following audio",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadFile loads configuration from the file at the given path.
func LoadFile(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load reads YAML configuration from r, expands environment variables,
// decodes it on top of the defaults, and validates the result.
func Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := expandEnvVars(string(data))

	config := DefaultConfig()
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	if err := dec.Decode(config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return config, nil
}

// expandEnvVars substitutes ${VAR} references with environment values.
// The ${VAR:-default} form falls back to the default when VAR is unset
// or empty.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		if i := strings.Index(key, ":-"); i >= 0 {
			envKey := key[:i]
			defaultValue := key[i+2:]
			if val := os.Getenv(envKey); val != "" {
				return val
			}
			return defaultValue
		}
		return os.Getenv(key)
	})
}

// Validate checks the configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout < 0 {
		return fmt.Errorf("negative read timeout: %v", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout < 0 {
		return fmt.Errorf("negative write timeout: %v", c.Server.WriteTimeout)
	}
	if c.Server.MaxHeaderBytes < 0 {
		return fmt.Errorf("negative max header bytes: %d", c.Server.MaxHeaderBytes)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("negative shutdown timeout: %v", c.Server.ShutdownTimeout)
	}

	if c.Upstream.Endpoint == "" {
		return fmt.Errorf("upstream endpoint must be set")
	}
	if !strings.HasPrefix(c.Upstream.Endpoint, "http://") && !strings.HasPrefix(c.Upstream.Endpoint, "https://") {
		return fmt.Errorf("upstream endpoint must be an http(s) URL: %s", c.Upstream.Endpoint)
	}
	if c.Upstream.Timeout < 0 {
		return fmt.Errorf("negative upstream timeout: %v", c.Upstream.Timeout)
	}

	if c.Models.Text == "" {
		return fmt.Errorf("models.text must be set")
	}
	if c.Models.Image == "" {
		return fmt.Errorf("models.image must be set")
	}
	if c.Models.Audio == "" {
		return fmt.Errorf("models.audio must be set")
	}
	if c.Models.Document == "" {
		return fmt.Errorf("models.document must be set")
	}

	if c.Limits.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive: %d", c.Limits.MaxUploadBytes)
	}
	if c.Limits.MaxPromptBytes <= 0 {
		return fmt.Errorf("max prompt bytes must be positive: %d", c.Limits.MaxPromptBytes)
	}
	if c.Limits.MaxPromptTokens < 0 {
		return fmt.Errorf("negative max prompt tokens: %d", c.Limits.MaxPromptTokens)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}
