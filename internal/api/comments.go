package api

import (
	"context"
	"net/http"

	"github.com/gemvoyage/web/internal/models"
)

func (c *Client) Comments(ctx context.Context) ([]models.Comment, error) {
	return getList[models.Comment](ctx, c, "/gem_comment", nil)
}

func (c *Client) GemComments(ctx context.Context, gemID string) ([]models.Comment, error) {
	return getList[models.Comment](ctx, c, "/gem_comment/gem/"+pathID(gemID), nil)
}

func (c *Client) CreateComment(ctx context.Context, cm models.Comment) error {
	return c.sendJSON(ctx, http.MethodPost, "/gem_comment", cm, nil)
}
