package gateway

import (
	"context"

	. "github.com/Akuma-real/memegate/internal/logging"
)

// DispatchEmotions sends the meme images for a delivered response. Runs
// strictly after the transport confirmed the text went out.
//
// Pending tags are consumed up front, so they are gone even if every send
// below fails. Each tag is handled independently: a missing category, empty
// directory or failed send is logged and the remaining tags still go out.
func (g *Gateway) DispatchEmotions(ctx context.Context, responseID, dest string) {
	tags := g.pending.Take(responseID)
	if len(tags) == 0 {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			L_error("gateway: dispatch panic", "responseID", responseID, "panic", r)
		}
	}()

	for _, tag := range tags {
		slug, ok := g.registry.Resolve(tag)
		if !ok {
			L_warn("gateway: pending tag no longer resolves", "tag", tag)
			continue
		}

		path, err := g.memes.PickRandom(slug)
		if err != nil {
			L_warn("gateway: no image to dispatch", "tag", tag, "category", slug, "error", err)
			continue
		}

		if err := g.transport.SendImage(ctx, dest, path); err != nil {
			L_error("gateway: image send failed", "tag", tag, "path", path, "error", err)
			continue
		}

		L_debug("gateway: image dispatched", "tag", tag, "path", path, "dest", dest)
	}
}
