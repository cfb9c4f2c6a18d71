package gateway

import (
	"context"
	"fmt"

	"github.com/Akuma-real/memegate/internal/bus"
	. "github.com/Akuma-real/memegate/internal/logging"
	"github.com/Akuma-real/memegate/internal/types"
	"github.com/Akuma-real/memegate/internal/upload"
)

// handleUploadMessage treats an inbound message as a potential upload.
// Returns true if the message was claimed by an upload session (the caller
// must not process it further). A message from a user without a live
// session is left for normal handling.
func (g *Gateway) handleUploadMessage(ctx context.Context, msg *types.InboundMessage) bool {
	key := upload.Key(msg.SessionID, msg.UserID)

	category, ok := g.uploads.Check(key)
	if !ok {
		return false
	}

	if len(msg.Attachments) == 0 {
		// Session is live but the message carries no image; prompt and keep
		// the session open for the next message.
		if err := g.transport.SendText(ctx, msg.ReplyTo, "请发送图片文件进行上传"); err != nil {
			L_error("gateway: upload prompt failed", "error", err)
		}
		return true
	}

	slug, ok := g.registry.Resolve(category)
	if !ok {
		// Category vanished between open and upload (override reload).
		g.uploads.Consume(key)
		g.reply(ctx, msg.ReplyTo, fmt.Sprintf("类别【%s】已不存在，上传已取消", category))
		return true
	}

	result := g.ingestor.Ingest(ctx, slug, msg.Attachments)
	g.uploads.Consume(key)

	for _, failure := range result.Failures {
		g.reply(ctx, msg.ReplyTo, fmt.Sprintf("文件 %s 下载失败: %v", failure.URL, failure.Err))
	}

	g.reply(ctx, msg.ReplyTo, fmt.Sprintf("成功添加 %d 张图片到【%s】类别！", len(result.Saved), category))

	if len(result.Saved) > 0 {
		bus.Publish(bus.TopicMemesIngested, bus.IngestedEvent{Category: slug, Saved: len(result.Saved)})
	}
	return true
}

func (g *Gateway) reply(ctx context.Context, dest, text string) {
	if err := g.transport.SendText(ctx, dest, text); err != nil {
		L_error("gateway: reply failed", "dest", dest, "error", err)
	}
}
