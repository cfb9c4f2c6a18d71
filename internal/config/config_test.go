package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~/.memegate/memes", filepath.Join(home, ".memegate", "memes")},
		{"~", home},
		{"/var/lib/memes", "/var/lib/memes"},
		{"relative/dir", "relative/dir"},
		{"/a//b/../c", "/a/c"},
	}
	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		if err != nil {
			t.Errorf("ExpandPath(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	// Point HOME at an empty directory so no real config is picked up.
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Memes.UploadTTL != DefaultUploadTTL {
		t.Errorf("UploadTTL = %d, want %d", cfg.Memes.UploadTTL, DefaultUploadTTL)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", cfg.LLM.Model)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Level = %q", cfg.Log.Level)
	}
	if filepath.IsAbs(cfg.Memes.Dir) == false {
		t.Errorf("Dir not expanded: %q", cfg.Memes.Dir)
	}
}

func TestLoadFromFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".memegate")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	data := `{
		"telegram": {"botToken": "123:abc", "allowedUsers": [42]},
		"memes": {"dir": "~/memes", "uploadTtl": 60, "forceHttpHosts": ["cdn.example.com"]},
		"log": {"level": "debug"}
	}`
	if err := os.WriteFile(filepath.Join(dir, "memegate.json"), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Telegram.BotToken != "123:abc" {
		t.Errorf("BotToken = %q", cfg.Telegram.BotToken)
	}
	if len(cfg.Telegram.AllowedUsers) != 1 || cfg.Telegram.AllowedUsers[0] != 42 {
		t.Errorf("AllowedUsers = %v", cfg.Telegram.AllowedUsers)
	}
	if cfg.Memes.UploadTTL != 60 {
		t.Errorf("UploadTTL = %d", cfg.Memes.UploadTTL)
	}
	if want := filepath.Join(home, "memes"); cfg.Memes.Dir != want {
		t.Errorf("Dir = %q, want %q", cfg.Memes.Dir, want)
	}
	if len(cfg.Memes.ForceHTTPHosts) != 1 || cfg.Memes.ForceHTTPHosts[0] != "cdn.example.com" {
		t.Errorf("ForceHTTPHosts = %v", cfg.Memes.ForceHTTPHosts)
	}
	// Defaults survive a partial file.
	if cfg.LLM.MaxTokens != 1024 {
		t.Errorf("MaxTokens = %d", cfg.LLM.MaxTokens)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q", cfg.Log.Level)
	}
}

func TestLoadBadJSON(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".memegate")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "memegate.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("expected an error for malformed config")
	}
}
