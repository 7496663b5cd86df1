package api

import (
	"context"
	"net/http"

	"github.com/gemvoyage/web/internal/models"
)

func (c *Client) Login(ctx context.Context, creds models.Credentials) (models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.sendJSON(ctx, http.MethodPost, "/auth/login", creds, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, creds models.Credentials) (models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.sendJSON(ctx, http.MethodPost, "/auth/register", creds, &out)
	return out, err
}

// Logout invalidates the token the client was authorized with.
func (c *Client) Logout(ctx context.Context) error {
	return c.sendJSON(ctx, http.MethodPost, "/auth/logout", struct{}{}, nil)
}

func (c *Client) ResendVerification(ctx context.Context, email string) error {
	return c.sendJSON(ctx, http.MethodPost, "/auth/resend-verification",
		models.ResendVerificationRequest{Email: email}, nil)
}
