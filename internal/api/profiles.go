package api

import (
	"context"
	"net/http"

	"github.com/gemvoyage/web/internal/models"
)

func (c *Client) Profile(ctx context.Context, userID string) (models.UserProfile, error) {
	var p models.UserProfile
	err := c.getJSON(ctx, "/user_profiles/"+pathID(userID), nil, &p)
	return p, err
}

// SaveProfile creates or replaces the profile of p.UserID.
func (c *Client) SaveProfile(ctx context.Context, p models.UserProfile) error {
	return c.sendJSON(ctx, http.MethodPost, "/user_profiles", p, nil)
}
