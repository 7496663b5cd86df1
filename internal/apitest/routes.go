package apitest

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gemvoyage/web/internal/models"
)

func (b *Backend) routes() *gin.Engine {
	r := gin.New()
	api := r.Group("/api")
	api.Use(b.record)
	{
		api.GET("/gem", b.getGems)
		api.POST("/gem", b.createGem)
		api.GET("/gem/latest", b.getLatestGems)
		api.GET("/gem/search", b.searchGems)
		api.POST("/gem/upload", b.uploadImage)
		api.GET("/gem/:id", b.getGem)

		api.GET("/city", b.getCities)
		api.GET("/city/:name/gems", b.getCityGems)

		api.GET("/vote", b.getVotes)
		api.POST("/vote", b.createVote)
		api.PUT("/vote/:id", b.updateVote)
		api.GET("/vote/gem/:id", b.getGemVotes)

		api.GET("/gem_comment", b.getComments)
		api.POST("/gem_comment", b.createComment)
		api.GET("/gem_comment/gem/:id", b.getGemComments)

		api.POST("/auth/login", b.login)
		api.POST("/auth/register", b.register)
		api.POST("/auth/logout", b.logout)
		api.POST("/auth/resend-verification", b.resendVerification)

		api.GET("/user_profiles/:id", b.getProfile)
		api.POST("/user_profiles", b.saveProfile)
	}
	return r
}

func (b *Backend) getGems(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	offsetParam, paged := c.GetQuery("offset")
	if !paged {
		c.JSON(http.StatusOK, nonNil(b.gems))
		return
	}
	offset, err := strconv.Atoi(offsetParam)
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid offset"})
		return
	}
	category := c.DefaultQuery("category", "All")
	var matched []models.Gem
	for _, g := range b.gems {
		if category == "All" || string(g.Category) == category {
			matched = append(matched, g)
		}
	}
	if offset >= len(matched) {
		c.JSON(http.StatusOK, []models.Gem{})
		return
	}
	end := min(offset+10, len(matched))
	c.JSON(http.StatusOK, matched[offset:end])
}

func (b *Backend) getLatestGems(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := min(len(b.gems), 6)
	latest := make([]models.Gem, 0, n)
	for i := len(b.gems) - 1; i >= len(b.gems)-n; i-- {
		latest = append(latest, b.gems[i])
	}
	c.JSON(http.StatusOK, gin.H{"content": latest})
}

func (b *Backend) searchGems(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q := strings.ToLower(c.Query("q"))
	category := c.DefaultQuery("category", "All")
	matched := []models.Gem{}
	for _, g := range b.gems {
		if category != "All" && string(g.Category) != category {
			continue
		}
		if strings.Contains(strings.ToLower(g.Title), q) {
			matched = append(matched, g)
		}
	}
	c.JSON(http.StatusOK, matched)
}

func (b *Backend) getGem(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := c.Param("id")
	for _, g := range b.gems {
		if g.ID == id || (g.Slug != "" && g.Slug == id) {
			c.JSON(http.StatusOK, g)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"msg": "Gem not found"})
}

func (b *Backend) createGem(c *gin.Context) {
	var in models.CreateGemRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	if len(in.Missing()) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "missing fields"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	gem := models.Gem{
		ID:          b.newID("gem"),
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Category:    in.Category,
		Image:       in.Image,
		Owner:       in.Owner,
		CreatedAt:   now(),
	}
	b.gems = append(b.gems, gem)
	c.JSON(http.StatusCreated, gem)
}

func (b *Backend) uploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	defer file.Close()
	if _, err := io.Copy(io.Discard, file); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": "https://images.example/" + header.Filename})
}

func (b *Backend) getCities(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c.JSON(http.StatusOK, nonNil(b.cities))
}

func (b *Backend) getCityGems(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	name := strings.ToLower(c.Param("name"))
	matched := []models.Gem{}
	for _, g := range b.gems {
		if strings.Contains(strings.ToLower(g.Location), name) {
			matched = append(matched, g)
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": matched})
}

func (b *Backend) getVotes(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c.JSON(http.StatusOK, nonNil(b.votes))
}

func (b *Backend) getGemVotes(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := c.Param("id")
	matched := []models.Vote{}
	for _, v := range b.votes {
		if v.GemID == id {
			matched = append(matched, v)
		}
	}
	c.JSON(http.StatusOK, matched)
}

func (b *Backend) createVote(c *gin.Context) {
	var v models.Vote
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if v.ID == "" {
		v.ID = b.newID("vote")
	}
	b.votes = append(b.votes, v)
	c.JSON(http.StatusCreated, v)
}

func (b *Backend) updateVote(c *gin.Context) {
	var v models.Vote
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	id := c.Param("id")
	for i := range b.votes {
		if b.votes[i].ID == id {
			v.ID = id
			b.votes[i] = v
			c.JSON(http.StatusOK, v)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"msg": "Vote not found"})
}

func (b *Backend) getComments(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c.JSON(http.StatusOK, nonNil(b.comments))
}

func (b *Backend) getGemComments(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := c.Param("id")
	matched := []models.Comment{}
	for _, cm := range b.comments {
		if cm.GemID == id {
			matched = append(matched, cm)
		}
	}
	c.JSON(http.StatusOK, matched)
}

func (b *Backend) createComment(c *gin.Context) {
	var cm models.Comment
	if err := c.ShouldBindJSON(&cm); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.comments = append(b.comments, cm)
	c.JSON(http.StatusCreated, cm)
}

func (b *Backend) login(c *gin.Context) {
	var in models.Credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	password, ok := b.users[in.Email]
	if !ok || password != in.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Invalid login credentials"})
		return
	}
	c.JSON(http.StatusOK, models.AuthResponse{
		AccessToken: "token-" + in.Email,
		User:        models.AuthUser{ID: "user-" + in.Email, Email: in.Email},
	})
}

func (b *Backend) register(c *gin.Context) {
	var in models.Credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.users[in.Email]; exists {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "User already registered"})
		return
	}
	b.users[in.Email] = in.Password
	// Unconfirmed accounts get no token until the email is verified.
	c.JSON(http.StatusOK, models.AuthResponse{User: models.AuthUser{ID: "user-" + in.Email, Email: in.Email}})
}

func (b *Backend) logout(c *gin.Context) {
	token := c.GetHeader("Authorization")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing token"})
		return
	}
	b.mu.Lock()
	expired := b.ExpiredTokens[token]
	b.mu.Unlock()
	if expired {
		c.String(http.StatusForbidden, "403: invalid JWT: unable to parse or verify signature, token is expired")
		return
	}
	c.Status(http.StatusNoContent)
}

func (b *Backend) resendVerification(c *gin.Context) {
	var in models.ResendVerificationRequest
	if err := c.ShouldBindJSON(&in); err != nil || in.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "email is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (b *Backend) getProfile(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.profiles[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Profile not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (b *Backend) saveProfile(c *gin.Context) {
	var p models.UserProfile
	if err := c.ShouldBindJSON(&p); err != nil || p.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "userId is required"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.profiles[p.UserID] = p
	c.JSON(http.StatusOK, p)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
