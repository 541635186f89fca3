package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bestsellers/internal/config"
)

// isLocalPath reports whether path is safe to redirect to (same origin only).
func isLocalPath(path string) bool {
	if path == "" || !strings.HasPrefix(path, "/") {
		return false
	}
	if strings.HasPrefix(path, "//") || strings.Contains(path, "://") || strings.Contains(path, "\\") {
		return false
	}
	return true
}

// sanitizeRedirectPath returns a safe redirect path, defaulting to "/" if invalid.
func sanitizeRedirectPath(path string) string {
	if isLocalPath(path) {
		return path
	}
	return "/"
}

// AuthController serves signup, login and logout.
type AuthController struct {
	service        *Service
	sessionManager *SessionManager
	view           *View
	rateLimiter    *RateLimiter
}

func NewAuthController(service *Service, sessionManager *SessionManager, view *View, cfg config.Auth) *AuthController {
	rateLimiter := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     cfg.MaxLoginAttempts,
		WindowDuration:  cfg.RateLimitWindow,
		LockoutDuration: cfg.LockoutDuration,
	})

	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		view:           view,
		rateLimiter:    rateLimiter,
	}
}

func (ac *AuthController) RegisterRoutes(router gin.IRoutes) {
	router.GET("/signup", ac.SignupPage)
	router.POST("/signup", ac.Signup)
	router.GET("/login", ac.LoginPage)
	router.POST("/login", ac.Login)
	router.GET("/logout", ac.Logout)
}

func (ac *AuthController) SignupPage(c *gin.Context) {
	ac.view.Render(c, http.StatusOK, "signup.html", gin.H{"Title": "Sign up"})
}

// Signup creates the account and logs it in.
func (ac *AuthController) Signup(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	imageURL := c.PostForm("image_url")

	form := gin.H{
		"Title":    "Sign up",
		"Username": username,
		"Email":    email,
		"ImageURL": imageURL,
	}

	user, err := ac.service.Signup(c.Request.Context(), username, email, c.PostForm("password"), imageURL)
	if err != nil {
		msg := FormErrorMessage(err)
		if msg == "" {
			log.Error("signup failed", "username", username, "error", err)
			msg = "Something went wrong. Please try again."
		}
		ac.view.Flash(c, FlashDanger, msg)
		ac.view.Render(c, http.StatusOK, "signup.html", form)
		return
	}

	if err := ac.sessionManager.Login(c.Request.Context(), user); err != nil {
		log.Error("failed to start session", "user_id", user.ID, "error", err)
		ac.view.RedirectWithFlash(c, "/login", FlashDanger, "Account created, please log in.")
		return
	}

	log.Info("user signed up", "user_id", user.ID, "username", user.Username)
	c.Redirect(http.StatusFound, "/")
}

// FormErrorMessage maps account validation errors to the text shown on
// signup and profile forms. Unknown errors map to "".
func FormErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrUserExists):
		return "Username already taken"
	case errors.Is(err, ErrUsernameRequired):
		return "Username is required"
	case errors.Is(err, ErrUsernameInvalid):
		return "Username must be 3-64 characters: letters, digits, dot, underscore or hyphen"
	case errors.Is(err, ErrEmailRequired):
		return "Email is required"
	case errors.Is(err, ErrEmailInvalid):
		return "Invalid email format"
	case errors.Is(err, ErrPasswordRequired):
		return "Password is required"
	case errors.Is(err, ErrPasswordTooShort):
		return fmt.Sprintf("Password must be at least %d characters", MinPasswordLength)
	case errors.Is(err, ErrPasswordTooLong):
		return "Password exceeds maximum length of 72 characters"
	}
	return ""
}

func (ac *AuthController) LoginPage(c *gin.Context) {
	ac.view.Render(c, http.StatusOK, "login.html", gin.H{
		"Title": "Log in",
		"Next":  sanitizeRedirectPath(c.Query("next")),
	})
}

// Login checks the credentials and starts a session.
func (ac *AuthController) Login(c *gin.Context) {
	username := c.PostForm("username")
	next := sanitizeRedirectPath(c.PostForm("next"))
	clientIP := c.ClientIP()

	form := gin.H{"Title": "Log in", "Username": username, "Next": next}

	if allowed, retryAfter := ac.rateLimiter.Allow(clientIP, username); !allowed {
		c.Header("Retry-After", fmt.Sprintf("%.0f", retryAfter.Seconds()))
		ac.view.Flash(c, FlashDanger, "Too many login attempts. Please try again later.")
		ac.view.Render(c, http.StatusTooManyRequests, "login.html", form)
		return
	}

	user, err := ac.service.Authenticate(c.Request.Context(), username, c.PostForm("password"))
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			log.Error("login failed", "username", username, "error", err)
		}
		ac.rateLimiter.RecordFailure(clientIP, username)
		ac.view.Flash(c, FlashDanger, "Invalid credentials.")
		ac.view.Render(c, http.StatusOK, "login.html", form)
		return
	}

	ac.rateLimiter.RecordSuccess(clientIP, username)

	if err := ac.sessionManager.Login(c.Request.Context(), user); err != nil {
		log.Error("failed to start session", "user_id", user.ID, "error", err)
		ac.view.Flash(c, FlashDanger, "Failed to create session")
		ac.view.Render(c, http.StatusOK, "login.html", form)
		return
	}

	ac.view.RedirectWithFlash(c, next, FlashSuccess, fmt.Sprintf("Hello, %s!", user.Username))
}

// Logout forgets the session user.
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.sessionManager.Logout(c.Request.Context()); err != nil {
		log.Error("failed to log out", "error", err)
	}
	c.Redirect(http.StatusFound, "/")
}
