package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gemvoyage/web/internal/api"
	"github.com/gemvoyage/web/internal/models"
)

type ProfileHandler struct {
	*deps
}

// GetProfile returns the logged-in user's profile, or needsProfile when
// there is none yet.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	f, ok := h.flows(c)
	if !ok {
		return
	}
	p, err := f.profile.Mine(c.Request.Context())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"profile": p, "needsProfile": false})
	case api.IsNotFound(err):
		c.JSON(http.StatusOK, gin.H{"profile": nil, "needsProfile": true})
	default:
		h.respondError(c, err, "Failed to fetch profile")
	}
}

func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	var input models.UserProfile
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, ok := h.flows(c)
	if !ok {
		return
	}
	p, err := f.profile.Save(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err, "Failed to save profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}
