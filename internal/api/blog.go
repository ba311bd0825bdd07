package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ListBlogs fetches one page of the blog feed. The server answers either
// with a bare array or a {results, next} envelope; both are normalized
// into a BlogPage.
func (c *Client) ListBlogs(ctx context.Context, page int) (*BlogPage, error) {
	if page < 1 {
		page = 1
	}
	var raw json.RawMessage
	path := fmt.Sprintf("/api/blogs/?page=%d", page)
	if err := c.do(ctx, http.MethodGet, path, nil, &raw, false); err != nil {
		return nil, err
	}

	var posts []BlogPost
	if err := json.Unmarshal(raw, &posts); err == nil {
		return &BlogPage{Posts: posts}, nil
	}

	var envelope struct {
		Results []BlogPost `json:"results"`
		Next    *string    `json:"next"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode blog page: %w", err)
	}
	pageOut := &BlogPage{Posts: envelope.Results, Enveloped: true}
	if envelope.Next != nil {
		pageOut.Next = *envelope.Next
	}
	return pageOut, nil
}

// AddComment posts a comment on a blog entry and returns the created comment.
func (c *Client) AddComment(ctx context.Context, postID int64, text string) (*Comment, error) {
	body := map[string]string{"comment": text}
	var created Comment
	path := fmt.Sprintf("/api/blogs/%d/comments/", postID)
	if err := c.do(ctx, http.MethodPost, path, body, &created, true); err != nil {
		return nil, err
	}
	return &created, nil
}

// ReactionKind selects which reaction counter to bump.
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// ReactToComment records a like or dislike and returns the server's
// authoritative counter value.
func (c *Client) ReactToComment(ctx context.Context, commentID int64, kind ReactionKind) (int, error) {
	var resp struct {
		Likes int `json:"likes"`
	}
	path := fmt.Sprintf("/api/comments/%d/%s/", commentID, kind)
	if err := c.do(ctx, http.MethodPost, path, nil, &resp, true); err != nil {
		return 0, err
	}
	return resp.Likes, nil
}
