package store

import "time"

// RecordVisitSubmission stores the JSON payload of a submitted booking.
func (db *DB) RecordVisitSubmission(payload string) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO visit_submissions (payload, created_at)
		VALUES (?, ?)`, payload, now)
	return err
}

// ListVisitSubmissions returns recorded bookings, newest first.
func (db *DB) ListVisitSubmissions(limit int) ([]VisitSubmission, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT id, payload, created_at
		FROM visit_submissions
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var subs []VisitSubmission
	for rows.Next() {
		var v VisitSubmission
		if err := rows.Scan(&v.ID, &v.Payload, &v.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, v)
	}
	return subs, rows.Err()
}
