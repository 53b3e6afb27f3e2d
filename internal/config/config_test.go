package config

import (
	"flag"
	"os"
	"strings"
	"testing"
)

// resetFlagSet создаёт новый FlagSet перед каждым вызовом NewConfig,
// чтобы избежать повторной регистрации одних и тех же флагов между тестами.
func resetFlagSet(t *testing.T) {
	t.Helper()
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	// подавляем вывод парсера флагов в тестах
	flag.CommandLine.SetOutput(os.Stderr)
}

func TestNewConfig_DefaultsWhenEnvEmpty(t *testing.T) {
	t.Setenv("DATABASE_URI", "")
	t.Setenv("AUTH_SECRET", "")
	t.Setenv("BASE_URL", "")
	t.Setenv("ENABLE_HTTPS", "")
	t.Setenv("IMAGE_MAX_MB", "")
	t.Setenv("BLOB_CHUNK_KB", "")
	t.Setenv("PUBLIC_HOST", "")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.AuthSecret != "dev-secret-key" {
		t.Fatalf("AuthSecret default expected 'dev-secret-key', got %q", cfg.AuthSecret)
	}
	if cfg.ImageMaxSizeMB != 5 {
		t.Fatalf("ImageMaxSizeMB default expected 5, got %d", cfg.ImageMaxSizeMB)
	}
	if cfg.BlobChunkSizeKB != 255 {
		t.Fatalf("BlobChunkSizeKB default expected 255, got %d", cfg.BlobChunkSizeKB)
	}
	if cfg.BaseURL != "localhost:8081" {
		t.Fatalf("BaseURL default expected 'localhost:8081', got %q", cfg.BaseURL)
	}
	if cfg.ServerURL != "http://localhost:8081" {
		t.Fatalf("ServerURL default expected 'http://localhost:8081', got %q", cfg.ServerURL)
	}
	// PublicHost без явного значения наследует BaseURL
	if cfg.PublicHost != cfg.BaseURL {
		t.Fatalf("PublicHost must default to BaseURL, got %q", cfg.PublicHost)
	}
	if cfg.PublicURL != "http://localhost:8081" {
		t.Fatalf("PublicURL default expected 'http://localhost:8081', got %q", cfg.PublicURL)
	}
}

func TestNewConfig_BaseURLAndHTTPS(t *testing.T) {
	t.Setenv("BASE_URL", "example.com:443")
	t.Setenv("ENABLE_HTTPS", "true")
	t.Setenv("AUTH_SECRET", "top")
	t.Setenv("IMAGE_MAX_MB", "10")
	t.Setenv("PUBLIC_HOST", "blog.example.com")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.BaseURL != "example.com:443" {
		t.Fatalf("BaseURL expected 'example.com:443', got %q", cfg.BaseURL)
	}
	if cfg.ServerURL != "https://example.com:443" {
		t.Fatalf("ServerURL expected 'https://example.com:443', got %q", cfg.ServerURL)
	}
	if cfg.AuthSecret != "top" {
		t.Fatalf("AuthSecret expected from env 'top', got %q", cfg.AuthSecret)
	}
	if cfg.ImageMaxSizeMB != 10 {
		t.Fatalf("ImageMaxSizeMB expected 10, got %d", cfg.ImageMaxSizeMB)
	}
	if cfg.PublicHost != "blog.example.com" {
		t.Fatalf("PublicHost expected 'blog.example.com', got %q", cfg.PublicHost)
	}
	// ссылки в письмах строятся от публичного хоста, а не от адреса сервера
	if cfg.PublicURL != "https://blog.example.com" {
		t.Fatalf("PublicURL expected 'https://blog.example.com', got %q", cfg.PublicURL)
	}
}

func TestNewConfig_InvalidBaseURLFallback(t *testing.T) {
	// Невалидный BASE_URL (со схемой) должен откатиться на localhost:8081
	t.Setenv("BASE_URL", "http://bad:8080")
	t.Setenv("ENABLE_HTTPS", "false")
	t.Setenv("PUBLIC_HOST", "")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.BaseURL != "localhost:8081" {
		t.Fatalf("invalid BASE_URL must fallback to 'localhost:8081', got %q", cfg.BaseURL)
	}
	if !strings.HasPrefix(cfg.ServerURL, "http://localhost:8081") {
		t.Fatalf("ServerURL must reflect fallback base, got %q", cfg.ServerURL)
	}
}
