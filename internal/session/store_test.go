package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/medogram/medoterm/internal/bus"
	"github.com/medogram/medoterm/internal/store"
)

func testStore(t *testing.T) (*Store, *store.DB) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	s, err := New(db, nil)
	if err != nil {
		t.Fatal(err)
	}
	return s, db
}

func TestInitialStateEmpty(t *testing.T) {
	s, _ := testStore(t)

	token, verified := s.Token()
	if token != "" || verified {
		t.Errorf("initial state = (%q, %v), want empty and unverified", token, verified)
	}
}

func TestSetPersistsAndVerifies(t *testing.T) {
	s, db := testStore(t)

	if err := s.Set("tok-1"); err != nil {
		t.Fatal(err)
	}

	token, verified := s.Token()
	if token != "tok-1" || !verified {
		t.Errorf("after Set = (%q, %v), want (tok-1, true)", token, verified)
	}

	persisted, err := db.GetCredential(store.KeyToken)
	if err != nil {
		t.Fatal(err)
	}
	if persisted != "tok-1" {
		t.Errorf("persisted token = %q, want tok-1", persisted)
	}
}

func TestClearResetsAndRemovesPersisted(t *testing.T) {
	s, db := testStore(t)

	if err := s.Set("tok-1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}

	token, verified := s.Token()
	if token != "" || verified {
		t.Errorf("after Clear = (%q, %v), want empty and unverified", token, verified)
	}

	persisted, err := db.GetCredential(store.KeyToken)
	if err != nil {
		t.Fatal(err)
	}
	if persisted != "" {
		t.Errorf("persisted token after Clear = %q, want empty", persisted)
	}
}

func TestRehydrateFromDB(t *testing.T) {
	s, db := testStore(t)

	if err := s.Set("tok-persisted"); err != nil {
		t.Fatal(err)
	}

	// A second store over the same db sees the token.
	s2, err := New(db, nil)
	if err != nil {
		t.Fatal(err)
	}
	token, verified := s2.Token()
	if token != "tok-persisted" || !verified {
		t.Errorf("rehydrated = (%q, %v), want (tok-persisted, true)", token, verified)
	}
}

func TestSetPublishesEvent(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	b := bus.New()
	ch, unsub := b.Subscribe("session.", 4)
	defer unsub()

	s, err := New(db, b)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set("tok"); err != nil {
		t.Fatal(err)
	}

	select {
	case evt := <-ch:
		if evt.Kind != bus.KindSessionChanged {
			t.Errorf("kind = %q, want %q", evt.Kind, bus.KindSessionChanged)
		}
	case <-time.After(time.Second):
		t.Fatal("no session event published")
	}
}
