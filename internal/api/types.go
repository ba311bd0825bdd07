package api

// Profile holds the account profile fields.
type Profile struct {
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// BlogPost is one entry in the paginated blog feed.
type BlogPost struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt string    `json:"created_at"`
	Comments  []Comment `json:"comments"`
}

// Comment is a blog comment with its reaction counters.
type Comment struct {
	ID       int64  `json:"id"`
	Comment  string `json:"comment"`
	Author   string `json:"author"`
	Likes    int    `json:"likes"`
	Dislikes int    `json:"dislikes"`
}

// BlogPage is one fetched page of the feed. Enveloped reports whether the
// server used the {results, next} envelope; when it did, Next holds the raw
// next-page pointer ("" = last page). Bare-array responses leave Next empty
// and Enveloped false, and the caller falls back to the non-empty heuristic.
type BlogPage struct {
	Posts     []BlogPost
	Next      string
	Enveloped bool
}

// Visit is a created appointment as returned by the booking endpoint.
type Visit struct {
	ID      int64  `json:"id"`
	Status  string `json:"status"`
	Created string `json:"created_at"`
}

// ChatSettings is the extra payload forwarded to the custom bot endpoint.
type ChatSettings struct {
	BotName     string  `json:"bot_name,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}
