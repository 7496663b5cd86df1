package api

import (
	"context"
	"net/http"

	"github.com/gemvoyage/web/internal/models"
)

func (c *Client) Votes(ctx context.Context) ([]models.Vote, error) {
	return getList[models.Vote](ctx, c, "/vote", nil)
}

func (c *Client) GemVotes(ctx context.Context, gemID string) ([]models.Vote, error) {
	return getList[models.Vote](ctx, c, "/vote/gem/"+pathID(gemID), nil)
}

func (c *Client) CreateVote(ctx context.Context, v models.Vote) error {
	return c.sendJSON(ctx, http.MethodPost, "/vote", v, nil)
}

// UpdateVote replaces the vote stored under v.ID.
func (c *Client) UpdateVote(ctx context.Context, v models.Vote) error {
	return c.sendJSON(ctx, http.MethodPut, "/vote/"+pathID(v.ID), v, nil)
}
