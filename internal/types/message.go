// Package types contains message types shared between the gateway and the
// channel adapters.
package types

import "github.com/Akuma-real/memegate/internal/ingest"

// InboundMessage is any message arriving from the host transport.
type InboundMessage struct {
	SessionID   string // conversation identifier (chat id)
	UserID      string // sender identifier within the channel
	Source      string // "telegram", "test", ...
	Text        string
	Attachments []ingest.Attachment // images carried by the message

	// ReplyTo is the channel-specific destination replies go to.
	ReplyTo string
}

// PartKind discriminates outbound message segments.
type PartKind int

const (
	PartText PartKind = iota
	PartImage
)

// Part is one segment of an outbound message.
type Part struct {
	Kind PartKind
	Text string // PartText
	Path string // PartImage: local file path
}

// OutboundMessage is a reply ready for delivery.
type OutboundMessage struct {
	// ID is the per-response correlation id threading the text-produced and
	// message-sent events together. Never shared between responses.
	ID string

	ReplyTo string
	Parts   []Part

	// LLMResult marks the message as a terminal LLM-originated text result.
	LLMResult bool
}

// Text concatenates the plain-text parts in order.
func (m *OutboundMessage) Text() string {
	var out string
	for _, p := range m.Parts {
		if p.Kind == PartText {
			out += p.Text
		}
	}
	return out
}
