package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load("")
	if cfg.ServerAddr != ":8080" {
		t.Fatalf("unexpected addr: %q", cfg.ServerAddr)
	}
	if cfg.DBDriver != "sqlite" || cfg.DBDSN != "botize.db" {
		t.Fatalf("unexpected db defaults: %q %q", cfg.DBDriver, cfg.DBDSN)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" || cfg.AnthropicModel != "claude-3-haiku-20240307" {
		t.Fatalf("unexpected model defaults: %q %q", cfg.OpenAIModel, cfg.AnthropicModel)
	}
	if cfg.ChatContextWindowSize != 20 {
		t.Fatalf("unexpected window: %d", cfg.ChatContextWindowSize)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := Load("")
	if cfg.ServerAddr != ":9999" {
		t.Fatalf("env override lost: %q", cfg.ServerAddr)
	}
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Fatalf("env override lost: %q", cfg.OpenAIAPIKey)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server_addr: \":7070\"\nrabbit_queue: \"custom_events\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Load(path)
	if cfg.ServerAddr != ":7070" {
		t.Fatalf("file value lost: %q", cfg.ServerAddr)
	}
	if cfg.RabbitQueue != "custom_events" {
		t.Fatalf("file value lost: %q", cfg.RabbitQueue)
	}
	// untouched keys keep their defaults
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("default lost: %q", cfg.DBDriver)
	}
}

func TestLoad_MissingFileFallsBack(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if cfg.ServerAddr != ":8080" {
		t.Fatalf("defaults must survive a missing file: %q", cfg.ServerAddr)
	}
}
