package server

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/gemvoyage/web/internal/api"
	"github.com/gemvoyage/web/internal/config"
	"github.com/gemvoyage/web/internal/database"
	"github.com/gemvoyage/web/internal/handlers"
	"github.com/gemvoyage/web/internal/middleware"
	"github.com/gemvoyage/web/internal/sitemap"
	"github.com/gemvoyage/web/internal/storage"
)

type Server struct {
	cfg     config.Config
	db      database.Service
	handler *handlers.Handler
	cookies sessions.Store
	logger  *zap.Logger
}

// NewServer wires the web front. Device state goes to Postgres when a
// database is configured and to memory otherwise.
func NewServer(cfg config.Config, logger *zap.Logger) (*Server, error) {
	if !cfg.DB.Enabled() {
		logger.Warn("no database configured, device state is kept in memory")
		return newServer(cfg, logger, nil, storage.NewDevices()), nil
	}
	db, err := database.New(cfg.DB.DSN())
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	return newServer(cfg, logger, db, db), nil
}

func newServer(cfg config.Config, logger *zap.Logger, db database.Service, devices handlers.DeviceStores) *Server {
	if cfg.UsesDevSessionSecret() {
		logger.Warn("GEMVOYAGE_SESSION_SECRET is unset, device cookies are signed with the public development secret")
	}
	client := api.NewClient(cfg.APIBaseURL, api.WithTimeout(cfg.RequestTimeout))
	generator := sitemap.New(client, cfg.SiteBaseURL, sitemap.WithLogger(logger))
	return &Server{
		cfg:     cfg,
		db:      db,
		handler: handlers.NewHandler(client, devices, generator, cfg.PerPage, logger),
		cookies: middleware.NewCookieStore(cfg.SessionSecret, cfg.SecureCookies),
		logger:  logger,
	}
}

// HTTPServer returns the configured http.Server for the routes.
func (s *Server) HTTPServer() *http.Server {
	s.logger.Info("server starting", zap.String("port", s.cfg.Port), zap.String("api", s.cfg.APIBaseURL))
	return &http.Server{
		Addr:         "0.0.0.0:" + s.cfg.Port,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Close releases the database connection, if any.
func (s *Server) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration. Without origins only same-origin pages can call
	// the API; a wildcard never carries the device cookie.
	if len(s.cfg.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     s.cfg.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Accept", "Content-Type", "X-Requested-With"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: !slices.Contains(s.cfg.AllowOrigins, "*"),
			MaxAge:           12 * 3600,
		}))
	}

	r.GET("/health", s.health)
	r.GET("/sitemap.xml", s.handler.Sitemap.GetSitemap)

	api := r.Group("/api")
	api.Use(middleware.Device(s.cookies))
	{
		// Reads
		api.GET("/categories", s.handler.Gem.GetCategories)
		api.GET("/browse", s.handler.Gem.Browse)
		api.GET("/latest", s.handler.Gem.GetLatest)
		api.GET("/gems/:id", s.handler.Gem.GetGem)
		api.GET("/gems/:id/comments", s.handler.Comment.GetComments)
		api.GET("/cities", s.handler.City.GetCities)
		api.GET("/cities/:slug/gems", s.handler.City.GetCityGems)
		api.GET("/session", s.handler.Auth.GetSession)
		api.GET("/profile", s.handler.Profile.GetProfile)

		// Writes (rate limited)
		writes := api.Group("")
		writes.Use(middleware.RateLimit(s.cfg.WriteRateLimit, time.Minute))
		{
			writes.POST("/gems", s.handler.Gem.CreateGem)
			writes.POST("/gems/:id/vote", s.handler.Vote.VoteGem)
			writes.POST("/gems/:id/comments", s.handler.Comment.CreateComment)
			writes.POST("/login", s.handler.Auth.Login)
			writes.POST("/register", s.handler.Auth.Register)
			writes.POST("/logout", s.handler.Auth.Logout)
			writes.POST("/resend-verification", s.handler.Auth.ResendVerification)
			writes.POST("/profile", s.handler.Profile.SaveProfile)
		}
	}

	return r
}

func (s *Server) health(c *gin.Context) {
	resp := gin.H{"status": "ok"}
	if s.db != nil {
		stats := s.db.Health()
		resp["database"] = stats
		if stats["status"] != "up" {
			resp["status"] = "degraded"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}
