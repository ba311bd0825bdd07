package lock

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAcquireWritesOwnPID(t *testing.T) {
	profileDir := t.TempDir()

	l, err := Acquire(profileDir)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer func() { _ = l.Release() }()

	data, err := os.ReadFile(filepath.Join(profileDir, "LOCK"))
	if err != nil {
		t.Fatalf("read lock file: %v", err)
	}
	if !strings.Contains(string(data), "pid=") {
		t.Errorf("lock file missing pid line: %q", data)
	}
	if parsePID(string(data)) != os.Getpid() {
		t.Errorf("lock file pid = %d, want %d", parsePID(string(data)), os.Getpid())
	}
}

func TestSecondClientInstanceRejected(t *testing.T) {
	profileDir := t.TempDir()

	l1, err := Acquire(profileDir)
	if err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}
	defer func() { _ = l1.Release() }()

	_, err = Acquire(profileDir)
	if err == nil {
		t.Fatal("second Acquire() on the same profile should fail")
	}

	var held *LockHeldError
	if !errors.As(err, &held) {
		t.Fatalf("expected LockHeldError, got %T: %v", err, err)
	}
	if held.PID != os.Getpid() {
		t.Errorf("LockHeldError.PID = %d, want %d", held.PID, os.Getpid())
	}
}

func TestReleaseRemovesLockFile(t *testing.T) {
	profileDir := t.TempDir()

	l, err := Acquire(profileDir)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := l.Release(); err != nil {
		t.Errorf("Release() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(profileDir, "LOCK")); !os.IsNotExist(err) {
		t.Error("lock file should be removed on release")
	}

	l2, err := Acquire(profileDir)
	if err != nil {
		t.Fatalf("re-Acquire() after release error = %v", err)
	}
	_ = l2.Release()
}

func TestReleaseIdempotentAndNilSafe(t *testing.T) {
	var nilLock *Lock
	if err := nilLock.Release(); err != nil {
		t.Errorf("nil Release() error = %v", err)
	}

	l, err := Acquire(t.TempDir())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := l.Release(); err != nil {
		t.Errorf("first Release() error = %v", err)
	}
	if err := l.Release(); err != nil {
		t.Errorf("second Release() error = %v", err)
	}
}
