// Package gateway wires the response pipeline: inbound messages in, text
// replies out, matching meme images dispatched after delivery.
package gateway

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Akuma-real/memegate/internal/bus"
	"github.com/Akuma-real/memegate/internal/commands"
	"github.com/Akuma-real/memegate/internal/emotion"
	"github.com/Akuma-real/memegate/internal/ingest"
	"github.com/Akuma-real/memegate/internal/llm"
	. "github.com/Akuma-real/memegate/internal/logging"
	"github.com/Akuma-real/memegate/internal/memestore"
	"github.com/Akuma-real/memegate/internal/types"
	"github.com/Akuma-real/memegate/internal/upload"
)

// Transport is the contract with the hosting message channel: deliver text,
// deliver an image from a local file, both addressed to a channel-specific
// destination.
type Transport interface {
	SendText(ctx context.Context, dest, text string) error
	SendImage(ctx context.Context, dest, path string) error
}

// Gateway owns the core subsystems and routes inbound messages through them.
type Gateway struct {
	registry  *emotion.Registry
	pending   *emotion.PendingStore
	memes     *memestore.Store
	uploads   *upload.Manager
	ingestor  *ingest.Ingestor
	provider  llm.Provider // may be nil: non-command messages are then ignored
	transport Transport

	uploadTTL time.Duration

	commands *commands.Manager
	sentSub  bus.SubscriptionID
}

// New assembles a gateway. provider may be nil when no LLM is configured.
func New(registry *emotion.Registry, memes *memestore.Store, uploads *upload.Manager,
	ingestor *ingest.Ingestor, provider llm.Provider, transport Transport,
	uploadTTL time.Duration) *Gateway {

	g := &Gateway{
		registry:  registry,
		pending:   emotion.NewPendingStore(),
		memes:     memes,
		uploads:   uploads,
		ingestor:  ingestor,
		provider:  provider,
		transport: transport,
		uploadTTL: uploadTTL,
	}
	g.commands = commands.NewManager(g)
	return g
}

// Start subscribes the emotion dispatcher to message.sent events.
func (g *Gateway) Start() {
	g.sentSub = bus.Subscribe(bus.TopicMessageSent, func(ev bus.Event) {
		sent, ok := ev.Data.(bus.SentEvent)
		if !ok {
			L_warn("gateway: message.sent with unexpected payload", "data", ev.Data)
			return
		}
		g.DispatchEmotions(context.Background(), sent.ResponseID, sent.Destination)
	})
	L_info("gateway: started")
}

// Stop unsubscribes from the bus.
func (g *Gateway) Stop() {
	bus.Unsubscribe(g.sentSub)
}

// SetTransport installs the delivery transport. Called once during wiring;
// the channel adapter needs the gateway first, so the transport arrives late.
func (g *Gateway) SetTransport(t Transport) {
	g.transport = t
}

// Commands exposes the command manager (for adapters that list commands).
func (g *Gateway) Commands() *commands.Manager {
	return g.commands
}

// HandleInbound routes one inbound message. Every branch is terminal: upload
// sessions swallow attachment messages, commands reply directly, everything
// else goes through the LLM reply pipeline.
func (g *Gateway) HandleInbound(ctx context.Context, msg *types.InboundMessage) {
	if len(msg.Attachments) > 0 || g.hasLiveUploadSession(msg) {
		if g.handleUploadMessage(ctx, msg) {
			return
		}
	}

	text := msg.Text
	if text == "" {
		return
	}

	if g.commands.Matches(text) {
		result := g.commands.Execute(ctx, text, upload.Key(msg.SessionID, msg.UserID))
		if err := g.transport.SendText(ctx, msg.ReplyTo, result.Text); err != nil {
			L_error("gateway: command reply failed", "error", err)
		}
		return
	}

	g.handleChat(ctx, msg)
}

// handleChat produces an LLM reply and runs it through the emotion pipeline:
// extract -> rewrite -> deliver -> publish message.sent.
func (g *Gateway) handleChat(ctx context.Context, msg *types.InboundMessage) {
	if g.provider == nil {
		L_trace("gateway: no llm provider, ignoring chat message")
		return
	}

	completion, err := g.provider.Complete(ctx, msg.Text)
	if err != nil {
		L_error("gateway: llm completion failed", "error", err)
		return
	}

	out := &types.OutboundMessage{
		ID:      uuid.NewString(),
		ReplyTo: msg.ReplyTo,
		Parts:   []types.Part{{Kind: types.PartText, Text: completion}},
	}

	g.DecorateResponse(out)

	if err := g.transport.SendText(ctx, out.ReplyTo, out.Text()); err != nil {
		// Delivery failed: drop whatever was pending for this response.
		g.pending.Take(out.ID)
		L_error("gateway: reply delivery failed", "error", err)
		return
	}

	bus.Publish(bus.TopicMessageSent, bus.SentEvent{
		ResponseID:  out.ID,
		Destination: out.ReplyTo,
	})
}

// hasLiveUploadSession reports whether the sender currently has an upload
// session open, without consuming it.
func (g *Gateway) hasLiveUploadSession(msg *types.InboundMessage) bool {
	_, ok := g.uploads.Check(upload.Key(msg.SessionID, msg.UserID))
	return ok
}

// --- commands.Provider ---

func (g *Gateway) CategoryNames() []string {
	return g.registry.Names()
}

func (g *Gateway) ResolveCategory(name string) (string, bool) {
	return g.registry.Resolve(name)
}

func (g *Gateway) OpenUploadSession(key, category string) {
	g.uploads.Open(key, category, g.uploadTTL)
}

func (g *Gateway) UploadWindowSeconds() int {
	return int(g.uploadTTL / time.Second)
}
