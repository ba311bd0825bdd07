package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	cfg := &Config{
		DefaultProfile: "work",
		APIBaseURL:     "http://localhost:8000",
		Chat:           Chat{Mode: "custom", BotName: "dr-bot", Temperature: 0.4, MaxTokens: 512},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DefaultProfile != "work" {
		t.Errorf("DefaultProfile = %q, want %q", loaded.DefaultProfile, "work")
	}
	if loaded.APIBaseURL != "http://localhost:8000" {
		t.Errorf("APIBaseURL = %q, want localhost", loaded.APIBaseURL)
	}
	if loaded.Chat.Mode != "custom" || loaded.Chat.BotName != "dr-bot" {
		t.Errorf("Chat = %+v, want custom/dr-bot", loaded.Chat)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	if err := Save(path, &Config{DefaultProfile: "main"}); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.APIBaseURL != DefaultBaseURL {
		t.Errorf("APIBaseURL = %q, want default %q", loaded.APIBaseURL, DefaultBaseURL)
	}
	if loaded.Chat.Mode != "assistant" {
		t.Errorf("Chat.Mode = %q, want assistant", loaded.Chat.Mode)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestSavePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	if err := Save(path, &Config{DefaultProfile: "main"}); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	perm := info.Mode().Perm()
	if perm != 0600 {
		t.Errorf("file permission = %o, want 0600", perm)
	}
}
