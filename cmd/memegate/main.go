package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Akuma-real/memegate/internal/channels/telegram"
	"github.com/Akuma-real/memegate/internal/config"
	"github.com/Akuma-real/memegate/internal/cron"
	"github.com/Akuma-real/memegate/internal/emotion"
	"github.com/Akuma-real/memegate/internal/gateway"
	"github.com/Akuma-real/memegate/internal/ingest"
	"github.com/Akuma-real/memegate/internal/llm"
	. "github.com/Akuma-real/memegate/internal/logging"
	"github.com/Akuma-real/memegate/internal/memestore"
	"github.com/Akuma-real/memegate/internal/upload"
	"github.com/Akuma-real/memegate/internal/watcher"
)

const version = "0.1.0"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("memegate %s\n", version)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	Init(&Config{
		Level:      ParseLevel(cfg.Log.Level),
		ShowCaller: cfg.Log.ShowCaller,
	})
	L_info("memegate %s starting", version)

	if cfg.Telegram.BotToken == "" {
		L_fatal("telegram.botToken is not configured")
	}

	memes, err := memestore.New(cfg.Memes.Dir)
	if err != nil {
		L_fatal("failed to init meme store: %v", err)
	}

	registry := emotion.NewRegistry(memes.OverridePath())
	memes.Audit(registry)

	policy := ingest.NewPolicy(cfg.Memes.ForceHTTPHosts)
	ingestor := ingest.New(memes, policy, func() {
		if err := registry.Reload(); err != nil && !os.IsNotExist(err) {
			L_warn("post-ingest reload failed", "error", err)
		}
	})

	uploads := upload.NewManager()

	var provider llm.Provider
	if cfg.LLM.APIKey != "" || cfg.LLM.BaseURL != "" {
		provider, err = llm.NewOpenAIProvider(cfg.LLM)
		if err != nil {
			L_fatal("failed to init llm provider: %v", err)
		}
	} else {
		L_warn("no llm configured; chat messages will be ignored")
	}

	gw := gateway.New(registry, memes, uploads, ingestor, provider, nil,
		time.Duration(cfg.Memes.UploadTTL)*time.Second)

	bot, err := telegram.New(&telegram.Config{
		BotToken:     cfg.Telegram.BotToken,
		AllowedUsers: cfg.Telegram.AllowedUsers,
	}, gw)
	if err != nil {
		L_fatal("failed to start telegram channel: %v", err)
	}
	gw.SetTransport(bot)
	gw.Start()

	watch, err := watcher.New(registry)
	if err != nil {
		L_warn("override watcher unavailable", "error", err)
	} else {
		watch.Start()
	}

	maintenance := cron.NewService(uploads, memes, registry)
	if err := maintenance.Start(); err != nil {
		L_warn("maintenance schedule failed", "error", err)
	}

	go bot.Start()
	L_info("memegate ready")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	L_info("shutting down")
	maintenance.Stop()
	if watch != nil {
		watch.Stop()
	}
	gw.Stop()
	bot.Stop()
}
