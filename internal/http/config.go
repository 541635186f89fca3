package http

import (
	"github.com/mrlokans/bestsellers/internal/auth"
	"github.com/mrlokans/bestsellers/internal/config"
	"github.com/mrlokans/bestsellers/internal/database"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database
	Overview OverviewSource
	Books    BookLookup
	Ledger   Ledger

	// Accounts and sessions
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	AuthConfig     config.Auth

	// CSRF protection is enabled when the secret is non-empty
	CSRFSecret    []byte
	SecureCookies bool

	// UI paths. An empty TemplatesPath uses the embedded templates.
	TemplatesPath string
	StaticPath    string

	// Application info
	Version string
}
