package store

// UpsertPost inserts or updates a cached blog post (idempotent on id).
func (db *DB) UpsertPost(p *Post) error {
	_, err := db.Exec(`
		INSERT INTO posts (id, title, excerpt, author, created_at, fetched_page)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			excerpt = excluded.excerpt,
			author = excluded.author,
			created_at = excluded.created_at,
			fetched_page = excluded.fetched_page`,
		p.ID, p.Title, p.Excerpt, p.Author, p.CreatedAt, p.FetchedPage)
	return err
}

// ListPosts returns cached posts ordered by id descending (newest first).
func (db *DB) ListPosts(limit int) ([]Post, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`
		SELECT id, title, excerpt, author, created_at, fetched_page
		FROM posts
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Excerpt, &p.Author, &p.CreatedAt, &p.FetchedPage); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// PostCount returns the number of cached posts.
func (db *DB) PostCount() (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}
