package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type CityHandler struct {
	*deps
}

func (h *CityHandler) GetCities(c *gin.Context) {
	f, ok := h.flows(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, f.gems.Cities(c.Request.Context()))
}

// GetCityGems returns the city header and one filtered page of its gems.
func (h *CityHandler) GetCityGems(c *gin.Context) {
	f, ok := h.flows(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	city := f.gems.City(ctx, c.Param("slug"))

	b := h.browser(f.gems.CitySource(city.Name))
	b.Load(ctx)
	b.Apply(c.Request.URL.Query())

	resp := gin.H{"city": city, "view": b.View()}
	if b.LoadErr() != nil {
		resp["warning"] = "Failed to fetch city gems."
	}
	c.JSON(http.StatusOK, resp)
}
