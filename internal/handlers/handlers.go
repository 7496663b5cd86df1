package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gemvoyage/web/internal/api"
	"github.com/gemvoyage/web/internal/browse"
	"github.com/gemvoyage/web/internal/comments"
	"github.com/gemvoyage/web/internal/gems"
	"github.com/gemvoyage/web/internal/middleware"
	"github.com/gemvoyage/web/internal/profile"
	"github.com/gemvoyage/web/internal/session"
	"github.com/gemvoyage/web/internal/sitemap"
	"github.com/gemvoyage/web/internal/storage"
	"github.com/gemvoyage/web/internal/voting"
)

// DeviceStores hands out the key/value storage of one device.
type DeviceStores interface {
	ForDevice(deviceID string) storage.Storage
}

// Handler combines all handler types
type Handler struct {
	Auth    *AuthHandler
	Gem     *GemHandler
	City    *CityHandler
	Vote    *VoteHandler
	Comment *CommentHandler
	Profile *ProfileHandler
	Sitemap *SitemapHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(client *api.Client, devices DeviceStores, generator *sitemap.Generator, perPage int, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if perPage <= 0 {
		perPage = browse.DefaultPerPage
	}
	d := &deps{client: client, devices: devices, perPage: perPage, logger: logger}
	return &Handler{
		Auth:    &AuthHandler{d},
		Gem:     &GemHandler{d},
		City:    &CityHandler{d},
		Vote:    &VoteHandler{d},
		Comment: &CommentHandler{d},
		Profile: &ProfileHandler{d},
		Sitemap: &SitemapHandler{generator: generator, logger: logger},
	}
}

type deps struct {
	client  *api.Client
	devices DeviceStores
	perPage int
	logger  *zap.Logger
}

// flows are the request-scoped services of one device.
type flows struct {
	session  *session.Session
	votes    *voting.Service
	comments *comments.Service
	profile  *profile.Service
	gems     *gems.Service
}

func (d *deps) flows(c *gin.Context) (*flows, bool) {
	deviceID, ok := middleware.DeviceID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Missing device session"})
		return nil, false
	}
	logger := d.logger.With(zap.String("device_id", deviceID))
	sess := session.New(d.client, d.devices.ForDevice(deviceID), logger)
	client := sess.Client(c.Request.Context())

	f := &flows{
		session:  sess,
		votes:    voting.NewService(client, sess, logger),
		comments: comments.NewService(client, sess, logger),
		profile:  profile.NewService(client, sess, logger),
	}
	f.gems = gems.NewService(client, sess, f.votes, f.comments, f.profile, logger)
	return f, true
}

func (d *deps) browser(source browse.Source) *browse.Browser {
	return browse.New(source, browse.WithPerPage(d.perPage), browse.WithLogger(d.logger))
}

// respondError maps flow and backend errors to a JSON error response.
func (d *deps) respondError(c *gin.Context, err error, fallback string) {
	status, msg := http.StatusBadGateway, fallback

	var se *api.StatusError
	switch {
	case errors.Is(err, session.ErrNotLoggedIn), errors.Is(err, session.ErrSessionExpired):
		status, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, comments.ErrEmptyComment),
		errors.Is(err, gems.ErrMissingFields),
		errors.Is(err, gems.ErrInvalidCategory),
		errors.Is(err, session.ErrNoPendingEmail),
		profile.IsIncomplete(err):
		status, msg = http.StatusBadRequest, err.Error()
	case api.IsNotFound(err):
		status = http.StatusNotFound
	case errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode < 500:
		status = se.StatusCode
		if m := se.Message(); m != "" {
			msg = m
		}
	}
	if status >= http.StatusInternalServerError {
		d.logger.Error(fallback, zap.Error(err))
	}
	c.JSON(status, gin.H{"error": msg})
}
