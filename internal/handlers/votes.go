package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	*deps
}

// VoteGem records an up or down vote and returns the refreshed tally.
func (h *VoteHandler) VoteGem(c *gin.Context) {
	var input struct {
		Positive *bool `json:"positive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "positive must be true or false"})
		return
	}
	f, ok := h.flows(c)
	if !ok {
		return
	}
	tally, err := f.votes.Cast(c.Request.Context(), c.Param("id"), *input.Positive)
	if err != nil {
		h.respondError(c, err, "Failed to vote")
		return
	}
	c.JSON(http.StatusOK, gin.H{"votes": tally, "score": tally.Score()})
}
