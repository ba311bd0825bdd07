package store

import (
	"database/sql"
	"time"
)

// Fixed credential keys.
const (
	KeyToken       = "token"
	KeySplashShown = "splash_shown"
)

// SetCredential stores a value under the given key.
func (db *DB) SetCredential(key, value string) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO credentials (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, value, now)
	return err
}

// GetCredential returns the stored value for key, or "" if absent.
func (db *DB) GetCredential(key string) (string, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// DeleteCredential removes the stored value for key. No-op if absent.
func (db *DB) DeleteCredential(key string) error {
	_, err := db.Exec(`DELETE FROM credentials WHERE key = ?`, key)
	return err
}
