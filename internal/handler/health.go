package handler // declare the package name; contains HTTP handlers

import (
	"net/http" // net/http provides status codes and response helpers
	"time"

	"github.com/labstack/echo/v4" // echo is the web framework used for this project

	"github.com/iliyamo/mind-mirror/internal/model"
)

// healthMessage is returned by the health endpoint.
const healthMessage = "Mind Mirror API is running"

// HealthResponse is the static body of GET /api/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Health reports that the process is serving.  It never touches the
// database, so it answers 200 even when the pool cannot connect.
func (h *RecordHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Message:   healthMessage,
		Timestamp: h.now().UTC().Format(model.TimeLayout),
	})
}

func (h *RecordHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
