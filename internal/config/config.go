// Package config loads the memegate configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config represents the merged memegate configuration
type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	LLM      LLMConfig      `json:"llm"`
	Memes    MemesConfig    `json:"memes"`
	Log      LogConfig      `json:"log"`
}

type TelegramConfig struct {
	BotToken     string  `json:"botToken"`
	AllowedUsers []int64 `json:"allowedUsers"` // empty = allow everyone
}

type LLMConfig struct {
	BaseURL      string `json:"baseUrl"` // OpenAI-compatible endpoint, empty = api.openai.com
	Model        string `json:"model"`
	APIKey       string `json:"apiKey"`
	SystemPrompt string `json:"systemPrompt"`
	MaxTokens    int    `json:"maxTokens"`
}

type MemesConfig struct {
	Dir            string   `json:"dir"`            // meme root, default ~/.memegate/memes
	UploadTTL      int      `json:"uploadTtl"`      // upload session TTL in seconds
	ForceHTTPHosts []string `json:"forceHttpHosts"` // hosts fetched over plain HTTP (broken certs)
}

type LogConfig struct {
	Level      string `json:"level"`
	ShowCaller bool   `json:"showCaller"`
}

// DefaultUploadTTL is the upload session lifetime in seconds.
const DefaultUploadTTL = 30

// Load reads configuration from ~/.memegate/memegate.json.
// A missing config file is not an error; defaults apply.
func Load() (*Config, error) {
	cfg := &Config{
		LLM: LLMConfig{
			Model:        "gpt-4o-mini",
			SystemPrompt: "你是一个可爱的聊天伙伴。回复时可以用[开心]、[生气]这样的方括号情绪标记。",
			MaxTokens:    1024,
		},
		Memes: MemesConfig{
			Dir:       "~/.memegate/memes",
			UploadTTL: DefaultUploadTTL,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	path := filepath.Join(home, ".memegate", "memegate.json")

	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if cfg.Memes.UploadTTL <= 0 {
		cfg.Memes.UploadTTL = DefaultUploadTTL
	}

	cfg.Memes.Dir, err = ExpandPath(cfg.Memes.Dir)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// ExpandPath expands a leading ~ to the user's home directory and cleans the path.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	return filepath.Clean(path), nil
}
