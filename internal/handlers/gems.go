package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gemvoyage/web/internal/models"
)

type GemHandler struct {
	*deps
}

func (h *GemHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"browse": models.BrowseCategories,
		"gem":    models.GemCategories,
	})
}

// Browse returns one filtered page of the whole collection. The query
// string carries category, q and page.
func (h *GemHandler) Browse(c *gin.Context) {
	f, ok := h.flows(c)
	if !ok {
		return
	}
	b := h.browser(f.gems.AllSource())
	b.Load(c.Request.Context())
	b.Apply(c.Request.URL.Query())

	resp := gin.H{"view": b.View()}
	if b.LoadErr() != nil {
		resp["warning"] = "Failed to fetch gems."
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GemHandler) GetLatest(c *gin.Context) {
	f, ok := h.flows(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, f.gems.Latest(c.Request.Context()))
}

// GetGem returns the gem with its vote tally and comments.
func (h *GemHandler) GetGem(c *gin.Context) {
	f, ok := h.flows(c)
	if !ok {
		return
	}
	detail, err := f.gems.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to fetch gem")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CreateGem accepts JSON, or a multipart form whose optional "file" part is
// uploaded first and used as the image.
func (h *GemHandler) CreateGem(c *gin.Context) {
	f, ok := h.flows(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var input models.CreateGemRequest
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		input = models.CreateGemRequest{
			Title:       c.PostForm("title"),
			Description: c.PostForm("description"),
			Location:    c.PostForm("location"),
			Category:    models.Category(c.PostForm("category")),
			Image:       c.PostForm("image"),
		}
		if fh, err := c.FormFile("file"); err == nil {
			file, err := fh.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			defer file.Close()
			url, err := f.gems.UploadImage(ctx, fh.Filename, file)
			if err != nil {
				h.respondError(c, err, "Failed to upload image")
				return
			}
			input.Image = url
		}
	} else if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gem, err := f.gems.Create(ctx, input)
	if err != nil {
		h.respondError(c, err, "Failed to create gem")
		return
	}
	c.JSON(http.StatusCreated, gem)
}
