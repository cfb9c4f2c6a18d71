// Package telegram is the Telegram channel adapter. It turns Telegram
// updates into gateway inbound messages and implements the gateway's
// Transport for deliveries.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/Akuma-real/memegate/internal/gateway"
	"github.com/Akuma-real/memegate/internal/ingest"
	logging "github.com/Akuma-real/memegate/internal/logging"
	"github.com/Akuma-real/memegate/internal/types"
)

const sourceName = "telegram"

// Bot is the Telegram channel.
type Bot struct {
	cfg *Config
	bot *tele.Bot
	gw  *gateway.Gateway
}

// New creates the Telegram bot and wires its handlers.
func New(cfg *Config, gw *gateway.Gateway) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	bot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	b := &Bot{cfg: cfg, bot: bot, gw: gw}
	b.setupHandlers()

	logging.L_info("telegram: bot created", "username", bot.Me.Username)
	return b, nil
}

func (b *Bot) setupHandlers() {
	b.bot.Handle(tele.OnText, b.handleText)
	b.bot.Handle(tele.OnPhoto, b.handlePhoto)
	b.bot.Handle(tele.OnDocument, b.handleDocument)
}

// Start begins long polling. Blocks until Stop is called.
func (b *Bot) Start() {
	logging.L_info("telegram: starting long poller")
	b.bot.Start()
}

// Stop shuts down the poller.
func (b *Bot) Stop() {
	b.bot.Stop()
	logging.L_info("telegram: stopped")
}

// Name returns the channel identifier.
func (b *Bot) Name() string {
	return sourceName
}

// inbound builds the gateway message for an update, without attachments.
func (b *Bot) inbound(c tele.Context) *types.InboundMessage {
	chatID := strconv.FormatInt(c.Chat().ID, 10)
	return &types.InboundMessage{
		SessionID: chatID,
		UserID:    strconv.FormatInt(c.Sender().ID, 10),
		Source:    sourceName,
		Text:      c.Text(),
		ReplyTo:   chatID,
	}
}

func (b *Bot) handleText(c tele.Context) error {
	if !b.cfg.allowed(c.Sender().ID) {
		logging.L_debug("telegram: ignoring message from unknown user", "userID", c.Sender().ID)
		return nil
	}

	b.gw.HandleInbound(context.Background(), b.inbound(c))
	return nil
}

func (b *Bot) handlePhoto(c tele.Context) error {
	if !b.cfg.allowed(c.Sender().ID) {
		return nil
	}

	photo := c.Message().Photo
	if photo == nil {
		return nil
	}

	msg := b.inbound(c)
	msg.Text = c.Message().Caption

	url, err := b.fileURL(photo.FileID)
	if err != nil {
		logging.L_error("telegram: failed to resolve photo url", "error", err)
		return nil
	}
	msg.Attachments = []ingest.Attachment{{URL: url}}

	b.gw.HandleInbound(context.Background(), msg)
	return nil
}

func (b *Bot) handleDocument(c tele.Context) error {
	if !b.cfg.allowed(c.Sender().ID) {
		return nil
	}

	doc := c.Message().Document
	if doc == nil {
		return nil
	}

	msg := b.inbound(c)
	msg.Text = c.Message().Caption

	url, err := b.fileURL(doc.FileID)
	if err != nil {
		logging.L_error("telegram: failed to resolve document url", "error", err)
		return nil
	}
	msg.Attachments = []ingest.Attachment{{URL: url}}

	b.gw.HandleInbound(context.Background(), msg)
	return nil
}

// fileURL resolves a Telegram file id to its bot-API download URL.
func (b *Bot) fileURL(fileID string) (string, error) {
	if fileID == "" {
		return "", fmt.Errorf("invalid file: missing FileID")
	}

	info, err := b.bot.FileByID(fileID)
	if err != nil {
		return "", fmt.Errorf("failed to get file info: %w", err)
	}

	return fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", b.bot.Token, info.FilePath), nil
}

// --- gateway.Transport ---

// SendText delivers a plain text message to a chat.
func (b *Bot) SendText(ctx context.Context, dest, text string) error {
	chatID, err := strconv.ParseInt(dest, 10, 64)
	if err != nil {
		return fmt.Errorf("bad destination %q: %w", dest, err)
	}

	_, err = b.bot.Send(tele.ChatID(chatID), text)
	return err
}

// SendImage delivers an image from a local file to a chat.
func (b *Bot) SendImage(ctx context.Context, dest, path string) error {
	chatID, err := strconv.ParseInt(dest, 10, 64)
	if err != nil {
		return fmt.Errorf("bad destination %q: %w", dest, err)
	}

	photo := &tele.Photo{File: tele.FromDisk(path)}
	_, err = b.bot.Send(tele.ChatID(chatID), photo)
	return err
}
