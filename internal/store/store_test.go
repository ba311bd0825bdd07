package store

import (
	"path/filepath"
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateAppliesOnFreshDB(t *testing.T) {
	db := testDB(t)

	// testDB already ran Migrate, so run it again to check idempotency.
	result, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed {
		t.Error("second Migrate() should report Changed=false")
	}
	if result.Version != 1 {
		t.Errorf("version = %d, want 1", result.Version)
	}
}

func TestCredentials(t *testing.T) {
	db := testDB(t)

	if err := db.SetCredential(KeyToken, "abc123"); err != nil {
		t.Fatal(err)
	}
	v, err := db.GetCredential(KeyToken)
	if err != nil {
		t.Fatal(err)
	}
	if v != "abc123" {
		t.Errorf("token = %q, want abc123", v)
	}

	// Overwrite.
	if err := db.SetCredential(KeyToken, "def456"); err != nil {
		t.Fatal(err)
	}
	v, _ = db.GetCredential(KeyToken)
	if v != "def456" {
		t.Errorf("token = %q, want def456", v)
	}

	if err := db.DeleteCredential(KeyToken); err != nil {
		t.Fatal(err)
	}
	v, err = db.GetCredential(KeyToken)
	if err != nil {
		t.Fatal(err)
	}
	if v != "" {
		t.Errorf("token after delete = %q, want empty", v)
	}
}

func TestCredentialMissingKey(t *testing.T) {
	db := testDB(t)

	v, err := db.GetCredential("nope")
	if err != nil {
		t.Fatal(err)
	}
	if v != "" {
		t.Errorf("value = %q, want empty for missing key", v)
	}
}

func TestChatMessageUpsertIdempotent(t *testing.T) {
	db := testDB(t)

	msg := &ChatMessage{MsgID: "m1", Sender: "user", Body: "hello", CreatedAt: 1000}
	if err := db.UpsertChatMessage(msg); err != nil {
		t.Fatal(err)
	}
	// Upsert again should not create duplicate.
	msg.Body = "hello updated"
	if err := db.UpsertChatMessage(msg); err != nil {
		t.Fatal(err)
	}

	msgs, err := db.ListChatMessages(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1 (idempotent upsert failed)", len(msgs))
	}
	if msgs[0].Body != "hello updated" {
		t.Errorf("body = %q, want hello updated", msgs[0].Body)
	}
}

func TestChatMessagesOrderedAndClearable(t *testing.T) {
	db := testDB(t)

	for _, m := range []ChatMessage{
		{MsgID: "m2", Sender: "bot", Body: "second", CreatedAt: 2000},
		{MsgID: "m1", Sender: "user", Body: "first", CreatedAt: 1000},
	} {
		if err := db.UpsertChatMessage(&m); err != nil {
			t.Fatal(err)
		}
	}

	msgs, err := db.ListChatMessages(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Body != "first" || msgs[1].Body != "second" {
		t.Errorf("messages out of order: %q, %q", msgs[0].Body, msgs[1].Body)
	}

	if err := db.ClearChatMessages(); err != nil {
		t.Fatal(err)
	}
	msgs, _ = db.ListChatMessages(0)
	if len(msgs) != 0 {
		t.Errorf("got %d messages after clear, want 0", len(msgs))
	}
}

func TestPostUpsertIdempotent(t *testing.T) {
	db := testDB(t)

	if err := db.UpsertPost(&Post{ID: 7, Title: "Sleep hygiene", FetchedPage: 1}); err != nil {
		t.Fatal(err)
	}
	// Same id delivered again on an overlapping page.
	if err := db.UpsertPost(&Post{ID: 7, Title: "Sleep hygiene (updated)", FetchedPage: 2}); err != nil {
		t.Fatal(err)
	}

	posts, err := db.ListPosts(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(posts))
	}
	if posts[0].Title != "Sleep hygiene (updated)" {
		t.Errorf("title = %q, want updated", posts[0].Title)
	}

	n, err := db.PostCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestVisitSubmissions(t *testing.T) {
	db := testDB(t)

	if err := db.RecordVisitSubmission(`{"name":"Sara"}`); err != nil {
		t.Fatal(err)
	}
	subs, err := db.ListVisitSubmissions(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 1 {
		t.Fatalf("got %d submissions, want 1", len(subs))
	}
	if subs[0].Payload != `{"name":"Sara"}` {
		t.Errorf("payload = %q", subs[0].Payload)
	}
}
