package http

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bestsellers/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	router.Use(cfg.SessionManager.SessionLoadSave())
	router.Use(cfg.AuthMiddleware.CurrentUser())

	tmpl, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	view := auth.NewView(cfg.SessionManager)

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", ping)

	auth.NewAuthController(cfg.AuthService, cfg.SessionManager, view, cfg.AuthConfig).RegisterRoutes(router)

	booksController := NewBooksController(cfg.Overview, cfg.Books, cfg.Ledger, view)
	router.GET("/", booksController.Home)

	members := router.Group("/", cfg.AuthMiddleware.RequireUser())
	booksController.RegisterRoutes(members)

	usersController := NewUsersController(cfg.AuthService, cfg.SessionManager, cfg.Books, cfg.Ledger, view)
	usersController.RegisterRoutes(members)

	return router, nil
}
