package api

import (
	"context"
	"net/http"
)

// WalletBalance returns the account's BoxMoney balance.
func (c *Client) WalletBalance(ctx context.Context) (int64, error) {
	var resp struct {
		Amount int64 `json:"amount"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/box", nil, &resp, true); err != nil {
		return 0, err
	}
	return resp.Amount, nil
}

// CreateVisit submits the aggregated booking form and returns the created visit.
func (c *Client) CreateVisit(ctx context.Context, form map[string]string) (*Visit, error) {
	var created Visit
	if err := c.do(ctx, http.MethodPost, "/api/visit/", form, &created, true); err != nil {
		return nil, err
	}
	return &created, nil
}

// CreatePayment requests a payment link for the given amount and returns
// the redirect URL.
func (c *Client) CreatePayment(ctx context.Context, amount int64) (string, error) {
	body := map[string]int64{"amount": amount}
	var resp struct {
		PaymentURL string `json:"payment_url"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/transaction/", body, &resp, true); err != nil {
		return "", err
	}
	return resp.PaymentURL, nil
}

// VerifyPayment confirms the return leg of a payment and returns the
// server's status message.
func (c *Client) VerifyPayment(ctx context.Context, transID, idGet string) (string, error) {
	body := map[string]string{"trans_id": transID, "id_get": idGet}
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/verify-payment/", body, &resp, false); err != nil {
		return "", err
	}
	return resp.Message, nil
}
