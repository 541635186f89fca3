package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bestsellers/internal/database"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// HealthResponse is the JSON body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController reports whether the storage behind the app answers.
type HealthController struct {
	db      *database.Database
	version string
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{db: db, version: version}
}

// checkDatabase fills checks and reports false only when a configured
// database does not answer a ping.
func (h *HealthController) checkDatabase(checks map[string]string) bool {
	if h.db == nil {
		checks["database"] = "not configured"
		return true
	}
	if err := h.db.Ping(); err != nil {
		checks["database"] = "unreachable"
		return false
	}

	checks["database"] = "ok"
	checks["driver"] = "postgres"
	if h.db.IsSQLite() {
		checks["driver"] = "sqlite"
	}
	return true
}

func (h *HealthController) Status(c *gin.Context) {
	resp := HealthResponse{
		Status:  statusHealthy,
		Time:    time.Now().UTC().Format(time.RFC3339),
		Version: h.version,
		Checks:  map[string]string{},
	}

	code := http.StatusOK
	if !h.checkDatabase(resp.Checks) {
		resp.Status = statusUnhealthy
		code = http.StatusServiceUnavailable
	}
	c.IndentedJSON(code, resp)
}

func ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
