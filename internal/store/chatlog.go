package store

// UpsertChatMessage inserts or updates a transcript entry (idempotent on msg_id).
func (db *DB) UpsertChatMessage(m *ChatMessage) error {
	_, err := db.Exec(`
		INSERT INTO chat_messages (msg_id, sender, body, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(msg_id) DO UPDATE SET
			sender = excluded.sender,
			body = excluded.body`,
		m.MsgID, m.Sender, m.Body, m.CreatedAt)
	return err
}

// ListChatMessages returns the transcript in chronological order.
func (db *DB) ListChatMessages(limit int) ([]ChatMessage, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := db.Query(`
		SELECT id, msg_id, sender, body, created_at
		FROM chat_messages
		ORDER BY created_at ASC, id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var msgs []ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.MsgID, &m.Sender, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// ClearChatMessages deletes the whole transcript. Used on logout.
func (db *DB) ClearChatMessages() error {
	_, err := db.Exec(`DELETE FROM chat_messages`)
	return err
}
