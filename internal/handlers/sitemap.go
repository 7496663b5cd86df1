package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gemvoyage/web/internal/sitemap"
)

type SitemapHandler struct {
	generator *sitemap.Generator
	logger    *zap.Logger
}

func (h *SitemapHandler) GetSitemap(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.generator.Write(c.Request.Context(), &buf); err != nil {
		h.logger.Error("failed to build sitemap", zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to build sitemap")
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", buf.Bytes())
}
