package store

// ChatMessage is a persisted chat transcript entry.
type ChatMessage struct {
	ID        int64
	MsgID     string
	Sender    string // user, bot
	Body      string
	CreatedAt int64
}

// Post is a cached blog post.
type Post struct {
	ID          int64
	Title       string
	Excerpt     string
	Author      string
	CreatedAt   string
	FetchedPage int
}

// VisitSubmission is a locally recorded booking payload.
type VisitSubmission struct {
	ID        int64
	Payload   string
	CreatedAt int64
}
