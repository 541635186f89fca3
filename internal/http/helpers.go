package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bestsellers/internal/auth"
)

// Flash messages for the book and user pages.
const (
	msgBookUnavailable   = "Book's details curently unavailable."
	msgCannotTrack       = "The book is unavailable to track or the ISBN is incorrect."
	msgAlreadyTracking   = "User is already tracking this book"
	msgNotTracking       = "User is not tracking this book"
	msgNotTrackingToggle = "The user isn't tracking this book."
	msgSomethingWrong    = "Something went wrong. Please try again."
	msgOverviewDown      = "This week's best sellers are currently unavailable."
)

func bookPath(isbn string) string {
	return "/books/" + isbn
}

func userPath(id uint) string {
	return fmt.Sprintf("/users/%d", id)
}

// redirectInternalError logs err and sends the visitor to location with a
// generic flash. The cause is never shown to the client.
func redirectInternalError(c *gin.Context, view *auth.View, location string, err error, op string) {
	log.Error("request failed", "op", op, "path", c.Request.URL.Path, "error", err)
	view.RedirectWithFlash(c, location, auth.FlashDanger, msgSomethingWrong)
}

// parseIDParam extracts an unsigned integer ID from URL parameters.
// On failure it responds with 404 and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
	if err != nil || id == 0 {
		c.String(http.StatusNotFound, "Not found")
		return 0, false
	}
	return uint(id), true
}
