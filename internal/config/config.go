package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Upload  UploadConfig
	Log     LogConfig
}

// ServerConfig holds configuration for the HTTP server
type ServerConfig struct {
	Port string
}

// BackendConfig holds configuration for the detection backend chain
type BackendConfig struct {
	ModelPath    string
	NamesPath    string
	OllamaHost   string
	OllamaModel  string
	InferenceURL string
}

// UploadConfig holds configuration for image uploads
type UploadConfig struct {
	MaxUploadMB int64
}

// LogConfig holds configuration for logging
type LogConfig struct {
	Debug bool
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
		},
		Backend: BackendConfig{
			ModelPath:    "",
			NamesPath:    "",
			OllamaHost:   "http://localhost:11434",
			OllamaModel:  "llava",
			InferenceURL: "",
		},
		Upload: UploadConfig{
			MaxUploadMB: 16,
		},
		Log: LogConfig{
			Debug: false,
		},
	}
}

// Load returns the default configuration overridden by environment
// variables. A .env file in the working directory is read first when
// present, matching how deployments ship their settings.
func Load() (*Config, error) {
	// Missing .env is fine, real env vars still apply.
	_ = godotenv.Load()

	cfg := Default()
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Backend.ModelPath = getEnv("MODEL_PATH", cfg.Backend.ModelPath)
	cfg.Backend.NamesPath = getEnv("MODEL_NAMES_PATH", cfg.Backend.NamesPath)
	cfg.Backend.OllamaHost = getEnv("OLLAMA_HOST", cfg.Backend.OllamaHost)
	cfg.Backend.OllamaModel = getEnv("OLLAMA_MODEL", cfg.Backend.OllamaModel)
	cfg.Backend.InferenceURL = getEnv("INFERENCE_URL", cfg.Backend.InferenceURL)
	cfg.Upload.MaxUploadMB = getEnvInt64("MAX_UPLOAD_MB", cfg.Upload.MaxUploadMB)
	cfg.Log.Debug = getEnvBool("DEBUG", cfg.Log.Debug)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for common errors
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port must not be empty")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server port must be numeric: %q", c.Server.Port)
	}
	if c.Upload.MaxUploadMB <= 0 {
		return fmt.Errorf("max upload size must be positive, got %d", c.Upload.MaxUploadMB)
	}
	return nil
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.Upload.MaxUploadMB << 20
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
