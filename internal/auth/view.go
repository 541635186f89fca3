package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// View renders the HTML templates registered on the gin engine and fills in
// the values every page layout needs.
type View struct {
	sessions *SessionManager
}

func NewView(sessions *SessionManager) *View {
	return &View{sessions: sessions}
}

// Render executes the named template. Queued flashes are consumed.
func (v *View) Render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CurrentUser"] = CurrentUser(c)
	data["Flashes"] = v.sessions.PopFlashes(c.Request.Context())
	data["CSRFField"] = CSRFField(c)
	c.HTML(status, name, data)
}

// Flash queues a message for the next rendered page.
func (v *View) Flash(c *gin.Context, category, message string) {
	v.sessions.AddFlash(c.Request.Context(), category, message)
}

// RedirectWithFlash queues a message and redirects with 302.
func (v *View) RedirectWithFlash(c *gin.Context, location, category, message string) {
	v.Flash(c, category, message)
	c.Redirect(http.StatusFound, location)
}
