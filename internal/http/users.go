package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/mrlokans/bestsellers/internal/auth"
	"github.com/mrlokans/bestsellers/internal/tracking"
)

// UsersController serves the member pages: tracked books, profile, edit and
// account deletion.
type UsersController struct {
	accounts *auth.Service
	sessions *auth.SessionManager
	books    BookLookup
	ledger   Ledger
	view     *auth.View
}

func NewUsersController(accounts *auth.Service, sessions *auth.SessionManager, books BookLookup, ledger Ledger, view *auth.View) *UsersController {
	return &UsersController{
		accounts: accounts,
		sessions: sessions,
		books:    books,
		ledger:   ledger,
		view:     view,
	}
}

// RegisterRoutes adds the members-only user routes.
func (uc *UsersController) RegisterRoutes(router gin.IRoutes) {
	router.GET("/users/books", uc.TrackedBooks)
	router.POST("/users/books/:isbn/read", uc.ToggleRead)
	router.GET("/users/edit", uc.EditPage)
	router.POST("/users/edit", uc.Edit)
	router.POST("/users/delete", uc.Delete)
	router.GET("/users/:id", uc.Details)
}

// TrackedBooks lists the current user's ledger.
func (uc *UsersController) TrackedBooks(c *gin.Context) {
	entries, err := uc.ledger.ListForUser(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		redirectInternalError(c, uc.view, "/", err, "list tracked books")
		return
	}

	uc.view.Render(c, http.StatusOK, "user_books.html", gin.H{
		"Title":   "My books",
		"Entries": entries,
		"ReadCount": lo.CountBy(entries, func(e tracking.Entry) bool {
			return e.Read
		}),
	})
}

// ToggleRead flips the read flag on a tracked book.
func (uc *UsersController) ToggleRead(c *gin.Context) {
	book, ok := findStoredBook(c, uc.books, uc.view)
	if !ok {
		return
	}

	read, err := uc.ledger.ToggleRead(c.Request.Context(), auth.GetUserID(c), book.ID)
	switch {
	case errors.Is(err, tracking.ErrNotTracking):
		uc.view.RedirectWithFlash(c, "/", auth.FlashDanger, msgNotTrackingToggle)
	case err != nil:
		redirectInternalError(c, uc.view, "/", err, "toggle read")
	default:
		log.Debug("read flag changed", "user_id", auth.GetUserID(c), "isbn", book.ISBN10, "read", read)
		c.Redirect(http.StatusFound, "/users/books")
	}
}

// Details shows a user's profile.
func (uc *UsersController) Details(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	user, err := uc.accounts.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			c.String(http.StatusNotFound, "User not found")
			return
		}
		redirectInternalError(c, uc.view, "/", err, "load user")
		return
	}

	tracked, err := uc.accounts.TrackedBookCount(ctx, user.ID)
	if err != nil {
		redirectInternalError(c, uc.view, "/", err, "count tracked books")
		return
	}

	uc.view.Render(c, http.StatusOK, "user_details.html", gin.H{
		"Title":        user.Username,
		"User":         user,
		"TrackedCount": tracked,
		"IsSelf":       user.ID == auth.GetUserID(c),
	})
}

// EditPage renders the profile form pre-filled with the current values.
func (uc *UsersController) EditPage(c *gin.Context) {
	user := auth.CurrentUser(c)
	uc.view.Render(c, http.StatusOK, "user_edit.html", gin.H{
		"Title":    "Edit profile",
		"Username": user.Username,
		"Email":    user.Email,
		"ImageURL": user.ImageURL,
	})
}

// Edit updates the profile after re-checking the password.
func (uc *UsersController) Edit(c *gin.Context) {
	upd := auth.ProfileUpdate{
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		ImageURL: c.PostForm("image_url"),
	}
	form := gin.H{
		"Title":    "Edit profile",
		"Username": upd.Username,
		"Email":    upd.Email,
		"ImageURL": upd.ImageURL,
	}

	user, err := uc.accounts.UpdateProfile(c.Request.Context(), auth.GetUserID(c), c.PostForm("password"), upd)
	if err != nil {
		msg := editErrorMessage(err)
		if msg == "" {
			log.Error("profile update failed", "user_id", auth.GetUserID(c), "error", err)
			msg = msgSomethingWrong
		}
		uc.view.Flash(c, auth.FlashDanger, msg)
		uc.view.Render(c, http.StatusOK, "user_edit.html", form)
		return
	}

	log.Info("profile updated", "user_id", user.ID)
	uc.view.RedirectWithFlash(c, userPath(user.ID), auth.FlashSuccess,
		fmt.Sprintf("%s, your changes were made successfully", user.Username))
}

func editErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials."
	case errors.Is(err, auth.ErrUserExists):
		return "Username or email already taken"
	}
	return auth.FormErrorMessage(err)
}

// Delete removes the account and its ledger, then ends the session and sends
// the visitor to the signup page. A failed delete keeps the session.
func (uc *UsersController) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	userID := auth.GetUserID(c)

	if err := uc.accounts.DeleteUser(ctx, userID); err != nil {
		redirectInternalError(c, uc.view, "/", err, "delete user")
		return
	}
	if err := uc.sessions.Logout(ctx); err != nil {
		log.Error("failed to log out", "user_id", userID, "error", err)
	}

	log.Info("user deleted", "user_id", userID)
	c.Redirect(http.StatusFound, "/signup")
}
