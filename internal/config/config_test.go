package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.GraphBaseURL != "https://graph.facebook.com/v19.0" {
		t.Errorf("GraphBaseURL = %q", cfg.GraphBaseURL)
	}
	if cfg.ReplyMaxChars != 1000 {
		t.Errorf("ReplyMaxChars = %d, want 1000", cfg.ReplyMaxChars)
	}
	if cfg.GeminiModelID != "gemini-2.5-flash" {
		t.Errorf("GeminiModelID = %q", cfg.GeminiModelID)
	}
	if cfg.GenerateTimeout != 15*time.Second {
		t.Errorf("GenerateTimeout = %v, want 15s", cfg.GenerateTimeout)
	}
	if cfg.ReplyCacheTTL != 10*time.Minute {
		t.Errorf("ReplyCacheTTL = %v, want 10m", cfg.ReplyCacheTTL)
	}
	if !cfg.UseMemoryQueue {
		t.Error("UseMemoryQueue should default to true")
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("WorkerCount = %d, want 2", cfg.WorkerCount)
	}
	if cfg.InventoryPath != "inventory.json" {
		t.Errorf("InventoryPath = %q", cfg.InventoryPath)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("WHATSAPP_VERIFY_TOKEN", "secret")
	t.Setenv("REPLY_MAX_CHARS", "500")
	t.Setenv("REPLY_CACHE_TTL", "1h")
	t.Setenv("USE_MEMORY_QUEUE", "false")
	t.Setenv("GENERATE_DELAY", "250ms")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.VerifyToken != "secret" {
		t.Errorf("VerifyToken = %q", cfg.VerifyToken)
	}
	if cfg.ReplyMaxChars != 500 {
		t.Errorf("ReplyMaxChars = %d, want 500", cfg.ReplyMaxChars)
	}
	if cfg.ReplyCacheTTL != time.Hour {
		t.Errorf("ReplyCacheTTL = %v, want 1h", cfg.ReplyCacheTTL)
	}
	if cfg.UseMemoryQueue {
		t.Error("UseMemoryQueue = true, want false")
	}
	if cfg.GenerateDelay != 250*time.Millisecond {
		t.Errorf("GenerateDelay = %v, want 250ms", cfg.GenerateDelay)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("REPLY_MAX_CHARS", "many")
	t.Setenv("USE_MEMORY_QUEUE", "definitely")
	t.Setenv("GENERATE_TIMEOUT", "soonish")

	cfg := Load()
	if cfg.ReplyMaxChars != 1000 {
		t.Errorf("ReplyMaxChars = %d, want default 1000", cfg.ReplyMaxChars)
	}
	if !cfg.UseMemoryQueue {
		t.Error("UseMemoryQueue should keep its default on parse failure")
	}
	if cfg.GenerateTimeout != 15*time.Second {
		t.Errorf("GenerateTimeout = %v, want default 15s", cfg.GenerateTimeout)
	}
}
