package config

import (
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected default port 8080, got %q", cfg.Server.Port)
	}
	if cfg.Backend.OllamaHost != "http://localhost:11434" {
		t.Errorf("Unexpected default ollama host %q", cfg.Backend.OllamaHost)
	}
	if cfg.Upload.MaxUploadMB != 16 {
		t.Errorf("Expected 16 MB upload limit, got %d", cfg.Upload.MaxUploadMB)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config must validate: %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MODEL_PATH", "/models/yolov8n.onnx")
	t.Setenv("INFERENCE_URL", "http://ml:8000")
	t.Setenv("MAX_UPLOAD_MB", "32")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("PORT override not applied, got %q", cfg.Server.Port)
	}
	if cfg.Backend.ModelPath != "/models/yolov8n.onnx" {
		t.Errorf("MODEL_PATH override not applied, got %q", cfg.Backend.ModelPath)
	}
	if cfg.Backend.InferenceURL != "http://ml:8000" {
		t.Errorf("INFERENCE_URL override not applied, got %q", cfg.Backend.InferenceURL)
	}
	if cfg.Upload.MaxUploadMB != 32 {
		t.Errorf("MAX_UPLOAD_MB override not applied, got %d", cfg.Upload.MaxUploadMB)
	}
	if !cfg.Log.Debug {
		t.Error("DEBUG override not applied")
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "lots")
	t.Setenv("DEBUG", "sure")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Upload.MaxUploadMB != 16 {
		t.Errorf("Malformed MAX_UPLOAD_MB must keep the default, got %d", cfg.Upload.MaxUploadMB)
	}
	if cfg.Log.Debug {
		t.Error("Malformed DEBUG must keep the default")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty port", func(c *Config) { c.Server.Port = "" }, true},
		{"non-numeric port", func(c *Config) { c.Server.Port = "http" }, true},
		{"zero upload limit", func(c *Config) { c.Upload.MaxUploadMB = 0 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("Expected a validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Unexpected validation error: %v", err)
			}
		})
	}
}

func TestMaxUploadBytes(t *testing.T) {
	cfg := Default()
	cfg.Upload.MaxUploadMB = 2
	if got := cfg.MaxUploadBytes(); got != 2<<20 {
		t.Errorf("Expected %d bytes, got %d", 2<<20, got)
	}
}
