package feed

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/medogram/medoterm/internal/api"
	"github.com/medogram/medoterm/internal/bus"
	"github.com/medogram/medoterm/internal/store"
	"go.uber.org/zap"
)

type fakeFetcher struct {
	mu      sync.Mutex
	pages   map[int]*api.BlogPage
	listErr error
	calls   []int

	comment    *api.Comment
	commentErr error
	likes      int
	block      chan struct{}
}

func (f *fakeFetcher) ListBlogs(_ context.Context, page int) (*api.BlogPage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, page)
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	if p, ok := f.pages[page]; ok {
		return p, nil
	}
	return &api.BlogPage{}, nil
}

func (f *fakeFetcher) AddComment(_ context.Context, _ int64, _ string) (*api.Comment, error) {
	if f.commentErr != nil {
		return nil, f.commentErr
	}
	return f.comment, nil
}

func (f *fakeFetcher) ReactToComment(_ context.Context, _ int64, _ api.ReactionKind) (int, error) {
	return f.likes, nil
}

type fakeSession struct {
	verified bool
}

func (f *fakeSession) Verified() bool { return f.verified }

func post(id int64, title string) api.BlogPost {
	return api.BlogPost{ID: id, Title: title}
}

func newList(f *fakeFetcher, verified bool) *List {
	return NewList(f, &fakeSession{verified: verified}, nil, zap.NewNop())
}

func TestLoadNextPageDedupsOverlappingPages(t *testing.T) {
	f := &fakeFetcher{pages: map[int]*api.BlogPage{
		1: {Posts: []api.BlogPost{post(1, "a"), post(2, "b")}},
		2: {Posts: []api.BlogPost{post(2, "b"), post(3, "c")}},
		3: {},
	}}
	l := newList(f, false)

	for i := 0; i < 3; i++ {
		if err := l.LoadNextPage(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	items := l.Items()
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3 (dedup by id)", len(items))
	}
	ids := map[int64]int{}
	for _, it := range items {
		ids[it.ID]++
	}
	for id, n := range ids {
		if n != 1 {
			t.Errorf("id %d appears %d times", id, n)
		}
	}
}

func TestEmptyPageStopsPagination(t *testing.T) {
	f := &fakeFetcher{pages: map[int]*api.BlogPage{
		1: {Posts: []api.BlogPost{post(1, "a")}},
		2: {},
	}}
	l := newList(f, false)

	_ = l.LoadNextPage(context.Background())
	if !l.HasMore() {
		t.Fatal("hasMore should be true after a non-empty page")
	}
	_ = l.LoadNextPage(context.Background())
	if l.HasMore() {
		t.Error("hasMore should be false after an empty page")
	}

	// Further loads are no-ops: no request issued.
	before := len(f.calls)
	_ = l.LoadNextPage(context.Background())
	if len(f.calls) != before {
		t.Errorf("load issued a request despite hasMore=false")
	}
}

func TestEnvelopeNextPointerControlsHasMore(t *testing.T) {
	f := &fakeFetcher{pages: map[int]*api.BlogPage{
		1: {Posts: []api.BlogPost{post(1, "a")}, Enveloped: true, Next: "/api/blogs/?page=2"},
		2: {Posts: []api.BlogPost{post(2, "b")}, Enveloped: true, Next: ""},
	}}
	l := newList(f, false)

	_ = l.LoadNextPage(context.Background())
	if !l.HasMore() {
		t.Fatal("explicit next pointer should keep hasMore true")
	}
	_ = l.LoadNextPage(context.Background())
	if l.HasMore() {
		t.Error("null next pointer should clear hasMore even though the page was non-empty")
	}
}

func TestPageIncrementsOnlyOnSuccess(t *testing.T) {
	f := &fakeFetcher{listErr: &api.NetworkError{Status: 500}}
	l := newList(f, false)

	if err := l.LoadNextPage(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if l.Page() != 1 {
		t.Errorf("page = %d, want 1 (no increment on failure)", l.Page())
	}
	if l.Loading() {
		t.Error("loading should be cleared after failure")
	}
}

func TestLoadingGuardSerializesFetches(t *testing.T) {
	block := make(chan struct{})
	f := &fakeFetcher{
		pages: map[int]*api.BlogPage{1: {Posts: []api.BlogPost{post(1, "a")}}},
		block: block,
	}
	l := newList(f, false)

	done := make(chan error, 1)
	go func() { done <- l.LoadNextPage(context.Background()) }()

	deadline := time.Now().Add(time.Second)
	for !l.Loading() {
		if time.Now().After(deadline) {
			t.Fatal("first load never started")
		}
		time.Sleep(time.Millisecond)
	}

	// Second trigger while loading is a silent no-op.
	if err := l.LoadNextPage(context.Background()); err != nil {
		t.Fatal(err)
	}

	close(block)
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	f.mu.Lock()
	calls := len(f.calls)
	f.mu.Unlock()
	if calls != 1 {
		t.Errorf("fetch calls = %d, want 1", calls)
	}
}

func TestAddCommentRequiresSessionAndText(t *testing.T) {
	f := &fakeFetcher{comment: &api.Comment{ID: 5, Comment: "nice"}}

	l := newList(f, false)
	err := l.AddComment(context.Background(), 1, "nice")
	var aerr *api.AuthError
	if !errors.As(err, &aerr) {
		t.Fatalf("error = %v, want AuthError without session", err)
	}

	l = newList(f, true)
	err = l.AddComment(context.Background(), 1, "   ")
	var verr *api.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError for empty text", err)
	}
}

func TestAddCommentAppendsInPlace(t *testing.T) {
	f := &fakeFetcher{
		pages:   map[int]*api.BlogPage{1: {Posts: []api.BlogPost{post(1, "a")}}},
		comment: &api.Comment{ID: 5, Comment: "nice"},
	}
	l := newList(f, true)
	_ = l.LoadNextPage(context.Background())

	if err := l.AddComment(context.Background(), 1, "nice"); err != nil {
		t.Fatal(err)
	}

	got, err := l.Get(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Comments) != 1 || got.Comments[0].Comment != "nice" {
		t.Errorf("comments = %+v", got.Comments)
	}
}

func TestReactAdoptsServerCount(t *testing.T) {
	f := &fakeFetcher{
		pages: map[int]*api.BlogPage{1: {Posts: []api.BlogPost{{
			ID: 1, Title: "a",
			Comments: []api.Comment{{ID: 5, Likes: 3}},
		}}}},
		likes: 17,
	}
	l := newList(f, true)
	_ = l.LoadNextPage(context.Background())

	if err := l.React(context.Background(), 5, api.ReactionLike); err != nil {
		t.Fatal(err)
	}
	got, _ := l.Get(1)
	if got.Comments[0].Likes != 17 {
		t.Errorf("likes = %d, want server's 17, not a local increment", got.Comments[0].Likes)
	}
}

func TestCacherPersistsLoadedPages(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	b := bus.New()
	c := NewCacher(db, b, zap.NewNop())
	c.Start(context.Background())
	defer c.Stop()

	f := &fakeFetcher{pages: map[int]*api.BlogPage{
		1: {Posts: []api.BlogPost{{ID: 7, Title: "Sleep", Content: "zzz", Author: "dr"}}},
	}}
	l := NewList(f, &fakeSession{}, b, zap.NewNop())
	if err := l.LoadNextPage(context.Background()); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		n, err := db.PostCount()
		if err != nil {
			t.Fatal(err)
		}
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("cached post count = %d, want 1", n)
		}
		time.Sleep(5 * time.Millisecond)
	}

	posts, err := db.ListPosts(0)
	if err != nil {
		t.Fatal(err)
	}
	if posts[0].Title != "Sleep" {
		t.Errorf("cached title = %q", posts[0].Title)
	}
}
