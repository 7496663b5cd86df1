package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gemvoyage/web/internal/models"
	"github.com/gemvoyage/web/internal/session"
)

type AuthHandler struct {
	*deps
}

type credentialsInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GetSession reports the device's login state. The token itself never
// leaves the server.
func (h *AuthHandler) GetSession(c *gin.Context) {
	f, ok := h.flows(c)
	if !ok {
		return
	}
	state, err := f.session.State(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read session"})
		return
	}
	c.JSON(http.StatusOK, state)
}

// Login stores the session keys and tells the client whether the profile
// still has to be completed.
func (h *AuthHandler) Login(c *gin.Context) {
	var input credentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, ok := h.flows(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	resp, err := f.session.Login(ctx, models.Credentials{Email: input.Email, Password: input.Password})
	if err != nil {
		h.respondError(c, err, "Login failed")
		return
	}
	needsProfile, _ := f.profile.NeedsCompletion(ctx)
	c.JSON(http.StatusOK, gin.H{
		"user":         resp.User,
		"needsProfile": needsProfile,
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input credentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, ok := h.flows(c)
	if !ok {
		return
	}
	resp, err := f.session.Register(c.Request.Context(), models.Credentials{Email: input.Email, Password: input.Password})
	if err != nil {
		h.respondError(c, err, "Registration failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user":    resp.User,
		"message": "Check your email to verify your account",
	})
}

// Logout clears the session keys. An expired token is still a successful
// logout, reported with a message.
func (h *AuthHandler) Logout(c *gin.Context) {
	f, ok := h.flows(c)
	if !ok {
		return
	}
	err := f.session.Logout(c.Request.Context())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	case errors.Is(err, session.ErrSessionExpired):
		c.JSON(http.StatusOK, gin.H{"message": err.Error(), "expired": true})
	default:
		h.respondError(c, err, "Logout failed")
	}
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	f, ok := h.flows(c)
	if !ok {
		return
	}
	if err := f.session.ResendVerification(c.Request.Context()); err != nil {
		h.respondError(c, err, "Failed to resend verification email")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent"})
}
