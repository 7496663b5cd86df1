package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	*deps
}

// GetComments returns the comments of a gem; a failed fetch yields an empty list.
func (h *CommentHandler) GetComments(c *gin.Context) {
	f, ok := h.flows(c)
	if !ok {
		return
	}
	list, err := f.comments.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"comments": list, "warning": "Failed to fetch comments."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": list})
}

// CreateComment posts a comment and returns the refetched list. A failed
// refetch still answers 201 since the comment was saved.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var input struct {
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, ok := h.flows(c)
	if !ok {
		return
	}
	thread, err := f.comments.Post(c.Request.Context(), c.Param("id"), input.Comment)
	if err != nil {
		h.respondError(c, err, "Failed to post comment")
		return
	}
	if thread.Stale {
		c.JSON(http.StatusCreated, gin.H{"comments": thread.Comments, "warning": "Comment posted; failed to refresh comments."})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comments": thread.Comments})
}
