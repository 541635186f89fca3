package auth

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bestsellers/internal/entities"
)

// Context keys for user data
const (
	ContextKeyUser   = "auth_user"
	ContextKeyUserID = "auth_user_id"
)

// UnauthorizedMessage is flashed when an anonymous visitor hits a members-only page.
const UnauthorizedMessage = "Access unauthorized."

// Middleware resolves the session user for each request.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(service *Service, sessionManager *SessionManager) *Middleware {
	return &Middleware{
		service:        service,
		sessionManager: sessionManager,
	}
}

// CurrentUser loads the logged in user, if any, into the gin context. A
// session pointing at a deleted account is logged out.
func (m *Middleware) CurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userID := m.sessionManager.CurrentUserID(ctx)
		if userID == 0 {
			c.Next()
			return
		}

		user, err := m.service.GetUserByID(ctx, userID)
		if err != nil {
			if !errors.Is(err, ErrUserNotFound) {
				log.Error("failed to load session user", "user_id", userID, "error", err)
			}
			_ = m.sessionManager.Logout(ctx)
			c.Next()
			return
		}

		c.Set(ContextKeyUser, user)
		c.Set(ContextKeyUserID, user.ID)
		c.Next()
	}
}

// RequireUser sends anonymous visitors back to "/" with a flash message.
func (m *Middleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			m.sessionManager.AddFlash(c.Request.Context(), FlashDanger, UnauthorizedMessage)
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user resolved for this request, or nil.
func CurrentUser(c *gin.Context) *entities.User {
	if v, ok := c.Get(ContextKeyUser); ok {
		if user, ok := v.(*entities.User); ok {
			return user
		}
	}
	return nil
}

// GetUserID returns the current user's ID, or 0 when anonymous.
func GetUserID(c *gin.Context) uint {
	if id, ok := c.Get(ContextKeyUserID); ok {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return 0
}

// IsAuthenticated returns true if the request carries a logged in user.
func IsAuthenticated(c *gin.Context) bool {
	return GetUserID(c) != 0
}
