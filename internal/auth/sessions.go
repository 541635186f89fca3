package auth

import (
	"context"
	"database/sql"
	"encoding/gob"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/bestsellers/internal/config"
	"github.com/mrlokans/bestsellers/internal/entities"
)

// Session data keys
const (
	SessionKeyUser    = "curr_user"
	SessionKeyFlashes = "flashes"
)

// Flash categories, matched by the templates' alert styles.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashInfo    = "info"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register([]Flash{})
}

// SessionManager wraps scs.SessionManager with application-specific methods.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager. With a non-nil
// sqlDB (SQLite) sessions survive restarts; otherwise they live in memory.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	sm := scs.New()

	if sqlDB != nil {
		_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
		if err != nil {
			return nil, err
		}
		sm.Store = sqlite3store.New(sqlDB)
	}

	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionLifetime / 2

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// Login binds the user to the session, renewing the token first to prevent
// session fixation.
func (sm *SessionManager) Login(ctx context.Context, user *entities.User) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	// Stored as int to match GetInt() retrieval
	sm.Put(ctx, SessionKeyUser, int(user.ID))
	return nil
}

// Logout forgets the user but keeps the session, so flashes set afterwards
// still reach the next page.
func (sm *SessionManager) Logout(ctx context.Context) error {
	sm.Remove(ctx, SessionKeyUser)
	return sm.RenewToken(ctx)
}

// CurrentUserID returns the logged in user's ID, or 0.
func (sm *SessionManager) CurrentUserID(ctx context.Context) uint {
	return uint(sm.GetInt(ctx, SessionKeyUser))
}

// AddFlash queues a message for the next rendered page.
func (sm *SessionManager) AddFlash(ctx context.Context, category, message string) {
	flashes, _ := sm.Get(ctx, SessionKeyFlashes).([]Flash)
	flashes = append(flashes, Flash{Category: category, Message: message})
	sm.Put(ctx, SessionKeyFlashes, flashes)
}

// PopFlashes returns and clears the queued messages.
func (sm *SessionManager) PopFlashes(ctx context.Context) []Flash {
	flashes, _ := sm.Pop(ctx, SessionKeyFlashes).([]Flash)
	return flashes
}
