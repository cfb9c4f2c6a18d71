package gateway

import (
	"github.com/Akuma-real/memegate/internal/emotion"
	. "github.com/Akuma-real/memegate/internal/logging"
	"github.com/Akuma-real/memegate/internal/types"
)

// DecorateResponse runs the tag extraction and rewrite step on an outgoing
// message, strictly before it is handed to the transport.
//
// Tags found in the text are stripped and parked in the pending store under
// the message's correlation id; the message is collapsed to its plain-text
// parts only (already-attached images are dropped) and marked as a terminal
// LLM text result. A message without recognized tags passes through
// untouched. Failures here are logged and swallowed: a broken rewrite must
// never take down the event pipeline.
func (g *Gateway) DecorateResponse(out *types.OutboundMessage) {
	defer func() {
		if r := recover(); r != nil {
			L_error("gateway: rewrite panic", "responseID", out.ID, "panic", r)
		}
	}()

	clean, tags := emotion.Extract(g.registry, out.Text())
	if len(tags) == 0 {
		return
	}

	out.Parts = []types.Part{{Kind: types.PartText, Text: clean}}
	out.LLMResult = true
	g.pending.Put(out.ID, tags)

	L_debug("gateway: response rewritten", "responseID", out.ID, "tags", tags)
}
