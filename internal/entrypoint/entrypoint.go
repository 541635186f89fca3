package entrypoint

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bestsellers/internal/auth"
	"github.com/mrlokans/bestsellers/internal/books"
	"github.com/mrlokans/bestsellers/internal/catalog"
	"github.com/mrlokans/bestsellers/internal/config"
	"github.com/mrlokans/bestsellers/internal/database"
	booksrepo "github.com/mrlokans/bestsellers/internal/database/books"
	"github.com/mrlokans/bestsellers/internal/database/ledger"
	"github.com/mrlokans/bestsellers/internal/database/users"
	http_controllers "github.com/mrlokans/bestsellers/internal/http"
	"github.com/mrlokans/bestsellers/internal/nyt"
	"github.com/mrlokans/bestsellers/internal/tracking"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App holds the wired application.
type App struct {
	Router   *gin.Engine
	Database *database.Database
	Overview *catalog.Cache
}

// NewApp opens the database and builds every service and the router.
func NewApp(cfg *config.Config, version string) (*App, error) {
	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	nytClient := nyt.NewClient(cfg.NYT)

	overview, err := catalog.New(nytClient, cfg.Cache)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	// Sessions persist in SQLite; with PostgreSQL they stay in memory.
	var sessionDB *database.Database
	if db.IsSQLite() {
		sessionDB = db
	}
	sessions, err := newSessionManager(sessionDB, cfg.Auth)
	if err != nil {
		_ = overview.Close()
		_ = db.Close()
		return nil, err
	}

	accounts := auth.NewService(users.NewRepository(db.DB), cfg.Auth)

	var secret []byte
	if cfg.Auth.CSRFEnabled {
		secret, err = csrfSecret(cfg.Auth.SessionSecret)
		if err != nil {
			_ = overview.Close()
			_ = db.Close()
			return nil, err
		}
	}

	router, err := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		Overview:       overview,
		Books:          books.NewService(booksrepo.NewRepository(db.DB), nytClient),
		Ledger:         tracking.NewService(ledger.NewRepository(db.DB)),
		AuthService:    accounts,
		AuthMiddleware: auth.NewMiddleware(accounts, sessions),
		SessionManager: sessions,
		AuthConfig:     cfg.Auth,
		CSRFSecret:     secret,
		SecureCookies:  cfg.Auth.SecureCookies,
		TemplatesPath:  cfg.UI.TemplatesPath,
		StaticPath:     cfg.UI.StaticPath,
		Version:        version,
	})
	if err != nil {
		_ = overview.Close()
		_ = db.Close()
		return nil, err
	}

	return &App{Router: router, Database: db, Overview: overview}, nil
}

// Close releases the cache backend and the database.
func (a *App) Close() {
	if err := a.Overview.Close(); err != nil {
		log.Error("error closing overview cache", "error", err)
	}
	if err := a.Database.Close(); err != nil {
		log.Error("error closing database", "error", err)
	}
}

func newSessionManager(db *database.Database, cfg config.Auth) (*auth.SessionManager, error) {
	if db == nil {
		return auth.NewSessionManager(nil, cfg)
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB for sessions: %w", err)
	}
	return auth.NewSessionManager(sqlDB, cfg)
}

// csrfSecret decodes the configured hex secret, falls back to the raw bytes
// for non-hex values and generates a random one when unset.
func csrfSecret(configured string) ([]byte, error) {
	if configured != "" {
		if secret, err := hex.DecodeString(configured); err == nil {
			return secret, nil
		}
		return []byte(configured), nil
	}

	generated, err := auth.GenerateSessionSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSRF secret: %w", err)
	}
	log.Info("generated session secret (set AUTH_SESSION_SECRET to persist)")
	return hex.DecodeString(generated)
}

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts down within
// the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server", "timeout", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Info("server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Info("starting best sellers tracker", "version", version)

	if log.GetLevel() > log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := NewApp(cfg, version)
	if err != nil {
		log.Fatal("failed to initialize application", "error", err)
	}

	Serve(app.Router, cfg, func(context.Context) {
		stats := app.Overview.Stats()
		log.Info("overview cache stats", "hits", stats.Hits, "misses", stats.Misses)
		app.Close()
	})
}
