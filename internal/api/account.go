package api

import (
	"context"
	"net/http"
)

// Register asks the server to send an OTP code to the given phone number.
func (c *Client) Register(ctx context.Context, phoneNumber string) error {
	body := map[string]string{"phone_number": phoneNumber}
	return c.do(ctx, http.MethodPost, "/api/register/", body, nil, false)
}

// Verify exchanges phone number and OTP code for a bearer token.
func (c *Client) Verify(ctx context.Context, phoneNumber, code string) (string, error) {
	body := map[string]string{"phone_number": phoneNumber, "code": code}
	var resp struct {
		Access string `json:"access"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/verify/", body, &resp, false); err != nil {
		return "", err
	}
	return resp.Access, nil
}

// GetUsername returns the account's current username.
func (c *Client) GetUsername(ctx context.Context) (string, error) {
	var resp struct {
		Username string `json:"username"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/username/", nil, &resp, true); err != nil {
		return "", err
	}
	return resp.Username, nil
}

// UpdateUsername sets a new username for the account.
func (c *Client) UpdateUsername(ctx context.Context, username string) error {
	body := map[string]string{"username": username}
	return c.do(ctx, http.MethodPost, "/api/username/update/", body, nil, true)
}

// GetProfile fetches the account profile.
func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodGet, "/api/profile/", nil, &p, true); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile saves changed profile fields and returns the updated profile.
func (c *Client) UpdateProfile(ctx context.Context, p *Profile) (*Profile, error) {
	var updated Profile
	if err := c.do(ctx, http.MethodPost, "/api/profile/update/", p, &updated, true); err != nil {
		return nil, err
	}
	return &updated, nil
}
