package api

import (
	"context"
	"net/http"
)

// SendChatMessage posts a user message to the standard assistant endpoint
// and returns the bot reply text.
func (c *Client) SendChatMessage(ctx context.Context, message string) (string, error) {
	body := map[string]string{"message": message}
	var resp struct {
		BotResponse string `json:"bot_response"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/chat/message/", body, &resp, true); err != nil {
		return "", err
	}
	return resp.BotResponse, nil
}

// SendCustomChatMessage posts a user message to the custom bot endpoint,
// forwarding the extra settings payload. The reply shape matches the
// standard endpoint.
func (c *Client) SendCustomChatMessage(ctx context.Context, message string, settings ChatSettings) (string, error) {
	body := struct {
		Message string `json:"message"`
		ChatSettings
	}{Message: message, ChatSettings: settings}
	var resp struct {
		BotResponse string `json:"bot_response"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/customchatbot/message/", body, &resp, true); err != nil {
		return "", err
	}
	return resp.BotResponse, nil
}
