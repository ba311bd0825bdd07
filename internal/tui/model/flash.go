// Package model holds small view-facing state holders.
package model

import (
	"sync"
	"time"
)

// Level classifies a flash message for rendering.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Flash holds transient notification messages.
type Flash struct {
	mu      sync.RWMutex
	message string
	level   Level
	expires time.Time
}

// Set stores a flash message that expires after the given duration.
func (f *Flash) Set(msg string, level Level, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.message = msg
	f.level = level
	f.expires = time.Now().Add(d)
}

// Get returns the current flash message and level, or "" if expired.
func (f *Flash) Get() (string, Level) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if time.Now().After(f.expires) {
		return "", LevelInfo
	}
	return f.message, f.level
}
