package feed

import (
	"context"
	"unicode/utf8"

	"github.com/medogram/medoterm/internal/api"
	"github.com/medogram/medoterm/internal/bus"
	"github.com/medogram/medoterm/internal/store"
	"go.uber.org/zap"
)

// Cacher persists fetched feed pages into the profile database so medoctl
// can list recent posts offline. It subscribes to "feed." events on the bus
// and ingests idempotently (the posts table upserts by id).
type Cacher struct {
	db     *store.DB
	bus    *bus.Bus
	logger *zap.Logger
	cancel context.CancelFunc
}

// NewCacher creates a cacher backed by the store.
func NewCacher(db *store.DB, b *bus.Bus, logger *zap.Logger) *Cacher {
	return &Cacher{db: db, bus: b, logger: logger}
}

// Start subscribes to feed events on the bus.
func (c *Cacher) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	ch, unsub := c.bus.Subscribe("feed.", 64)

	go func() {
		defer unsub()
		for {
			select {
			case evt := <-ch:
				c.handleEvent(evt)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the cacher.
func (c *Cacher) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Cacher) handleEvent(evt bus.Event) {
	if evt.Kind != bus.KindFeedPageLoaded {
		return
	}
	posts, ok := evt.Payload.([]api.BlogPost)
	if !ok {
		return
	}
	for _, p := range posts {
		if err := c.db.UpsertPost(&store.Post{
			ID:        p.ID,
			Title:     p.Title,
			Excerpt:   truncate(p.Content, 200),
			Author:    p.Author,
			CreatedAt: p.CreatedAt,
		}); err != nil {
			c.logger.Warn("post cache failed", zap.Error(err), zap.Int64("post_id", p.ID))
		}
	}
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence;
// post content is mostly Persian, so a byte-index cut would corrupt it.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
