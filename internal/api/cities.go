package api

import (
	"context"

	"github.com/gemvoyage/web/internal/models"
)

func (c *Client) Cities(ctx context.Context) ([]models.City, error) {
	return getList[models.City](ctx, c, "/city", nil)
}

// CityGems lists the gems of the city called name (not its slug).
func (c *Client) CityGems(ctx context.Context, name string) ([]models.Gem, error) {
	return getList[models.Gem](ctx, c, "/city/"+pathID(name)+"/gems", nil)
}
