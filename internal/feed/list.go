// Package feed implements the paginated blog list: fetch-append pages with
// id dedup, the bottom-of-list trigger guard, and the comment/reaction
// sub-operations.
package feed

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/medogram/medoterm/internal/api"
	"github.com/medogram/medoterm/internal/bus"
	"go.uber.org/zap"
)

// Fetcher is the slice of the API the list depends on.
type Fetcher interface {
	ListBlogs(ctx context.Context, page int) (*api.BlogPage, error)
	AddComment(ctx context.Context, postID int64, text string) (*api.Comment, error)
	ReactToComment(ctx context.Context, commentID int64, kind api.ReactionKind) (int, error)
}

// SessionRef answers whether a verified session exists. Implemented by
// session.Store.
type SessionRef interface {
	Verified() bool
}

// List accumulates feed pages. Items never contain duplicate ids; the page
// counter only advances after a successful fetch; loading serializes
// pagination.
type List struct {
	mu      sync.RWMutex
	items   []api.BlogPost
	seen    map[int64]bool
	page    int
	hasMore bool
	loading bool

	client  Fetcher
	session SessionRef
	bus     *bus.Bus
	logger  *zap.Logger
}

// NewList creates an empty list positioned before page 1.
func NewList(client Fetcher, session SessionRef, b *bus.Bus, logger *zap.Logger) *List {
	return &List{
		seen:    make(map[int64]bool),
		page:    1,
		hasMore: true,
		client:  client,
		session: session,
		bus:     b,
		logger:  logger,
	}
}

// Items returns a snapshot of the accumulated posts.
func (l *List) Items() []api.BlogPost {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]api.BlogPost, len(l.items))
	copy(out, l.items)
	return out
}

// HasMore reports whether another page may exist.
func (l *List) HasMore() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.hasMore
}

// Loading reports whether a page fetch is in flight.
func (l *List) Loading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loading
}

// Page returns the next page number to fetch.
func (l *List) Page() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.page
}

// LoadNextPage fetches and merges one page. It is a no-op unless
// hasMore && !loading, so the scroll trigger can fire redundantly.
func (l *List) LoadNextPage(ctx context.Context) error {
	l.mu.Lock()
	if !l.hasMore || l.loading {
		l.mu.Unlock()
		return nil
	}
	l.loading = true
	page := l.page
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.loading = false
		l.mu.Unlock()
	}()

	result, err := l.client.ListBlogs(ctx, page)
	if err != nil {
		l.logger.Warn("feed page fetch failed", zap.Error(err), zap.Int("page", page))
		return err
	}

	l.mu.Lock()
	added := 0
	for _, post := range result.Posts {
		if l.seen[post.ID] {
			continue
		}
		l.seen[post.ID] = true
		l.items = append(l.items, post)
		added++
	}
	l.page++
	if result.Enveloped {
		l.hasMore = result.Next != ""
	} else {
		// Heuristic: a non-empty page means more may exist.
		l.hasMore = len(result.Posts) > 0
	}
	l.mu.Unlock()

	if l.bus != nil && added > 0 {
		l.bus.Publish(bus.Event{
			Kind:      bus.KindFeedPageLoaded,
			Timestamp: time.Now(),
			Payload:   result.Posts,
		})
	}
	return nil
}

// AddComment posts a comment on an item and appends the created comment in
// place. Requires a verified session and non-empty text.
func (l *List) AddComment(ctx context.Context, postID int64, text string) error {
	if l.session == nil || !l.session.Verified() {
		return &api.AuthError{Reason: "comments require a verified session"}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return &api.ValidationError{Field: "comment", Reason: "must not be empty"}
	}

	created, err := l.client.AddComment(ctx, postID, text)
	if err != nil {
		l.logger.Warn("add comment failed", zap.Error(err), zap.Int64("post_id", postID))
		return err
	}

	l.mu.Lock()
	for i := range l.items {
		if l.items[i].ID == postID {
			l.items[i].Comments = append(l.items[i].Comments, *created)
			break
		}
	}
	l.mu.Unlock()
	return nil
}

// React records a like or dislike and adopts the server's authoritative
// counter, avoiding drift from local increments.
func (l *List) React(ctx context.Context, commentID int64, kind api.ReactionKind) error {
	if l.session == nil || !l.session.Verified() {
		return &api.AuthError{Reason: "reactions require a verified session"}
	}

	likes, err := l.client.ReactToComment(ctx, commentID, kind)
	if err != nil {
		return err
	}

	l.mu.Lock()
	for i := range l.items {
		for j := range l.items[i].Comments {
			if l.items[i].Comments[j].ID == commentID {
				l.items[i].Comments[j].Likes = likes
			}
		}
	}
	l.mu.Unlock()
	return nil
}

// ErrNotFound is kept for callers that look items up by id.
var ErrNotFound = errors.New("post not found")

// Get returns the accumulated post with the given id.
func (l *List) Get(postID int64) (*api.BlogPost, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for i := range l.items {
		if l.items[i].ID == postID {
			post := l.items[i]
			return &post, nil
		}
	}
	return nil, ErrNotFound
}
