package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDir(t *testing.T) {
	home, _ := os.UserHomeDir()
	got := Dir("main")
	want := filepath.Join(home, ".medogram", "profiles", "main")
	if got != want {
		t.Errorf("Dir(main) = %q, want %q", got, want)
	}
}

func TestDBPath(t *testing.T) {
	got := DBPath("test")
	if !strings.HasSuffix(got, filepath.Join("profiles", "test", "medogram.db")) {
		t.Errorf("DBPath(test) = %q, want suffix profiles/test/medogram.db", got)
	}
}

func TestLockPath(t *testing.T) {
	got := LockPath("test")
	if !strings.HasSuffix(got, filepath.Join("profiles", "test", "LOCK")) {
		t.Errorf("LockPath(test) = %q, want suffix profiles/test/LOCK", got)
	}
}

func TestConfigPath(t *testing.T) {
	got := ConfigPath()
	if !strings.HasSuffix(got, filepath.Join(".medogram", "config.toml")) {
		t.Errorf("ConfigPath() = %q, want suffix .medogram/config.toml", got)
	}
}
