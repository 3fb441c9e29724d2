package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const checkTimeout = 2 * time.Second

// Check pings one dependency.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// CheckRecorder receives the outcome of every readiness check.
type CheckRecorder interface {
	RecordDependencyCheck(ctx context.Context, dependency string, duration time.Duration, err error)
}

type Handler struct {
	checks   []Check
	recorder CheckRecorder
}

func NewHandler(recorder CheckRecorder, checks ...Check) *Handler {
	return &Handler{checks: checks, recorder: recorder}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready answers 503 when any dependency fails its ping.
func (h *Handler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	resp := HealthResponse{Status: "ready"}
	code := http.StatusOK
	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
	}

	for _, check := range h.checks {
		start := time.Now()
		err := check.Ping(ctx)
		h.recorder.RecordDependencyCheck(ctx, check.Name, time.Since(start), err)

		if err != nil {
			resp.Checks[check.Name] = err.Error()
			resp.Status = "unavailable"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[check.Name] = "ok"
	}

	c.JSON(code, resp)
}
