package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"hostel-service/internal/crud"
	"hostel-service/internal/fee"
	"hostel-service/internal/maintenance"
	"hostel-service/internal/room"
	"hostel-service/internal/student"
	"hostel-service/internal/visitor"

	"github.com/gin-gonic/gin"
)

// Stores are the providers of every record kind.
type Stores struct {
	Students    crud.Store[student.Student]
	Rooms       crud.Store[room.Room]
	Fees        crud.Store[fee.Fee]
	Visitors    crud.Store[visitor.Visitor]
	Maintenance crud.Store[maintenance.Request]
}

// Load lists every kind. Any failure is reported as crud.ErrFetchFailed.
func (s Stores) Load(ctx context.Context) (Collections, error) {
	var (
		c   Collections
		err error
	)
	if c.Students, err = s.Students.List(ctx); err != nil {
		return Collections{}, fmt.Errorf("%w: %w", crud.ErrFetchFailed, err)
	}
	if c.Rooms, err = s.Rooms.List(ctx); err != nil {
		return Collections{}, fmt.Errorf("%w: %w", crud.ErrFetchFailed, err)
	}
	if c.Fees, err = s.Fees.List(ctx); err != nil {
		return Collections{}, fmt.Errorf("%w: %w", crud.ErrFetchFailed, err)
	}
	if c.Visitors, err = s.Visitors.List(ctx); err != nil {
		return Collections{}, fmt.Errorf("%w: %w", crud.ErrFetchFailed, err)
	}
	if c.Maintenance, err = s.Maintenance.List(ctx); err != nil {
		return Collections{}, fmt.Errorf("%w: %w", crud.ErrFetchFailed, err)
	}
	return c, nil
}

type Handler struct {
	stores Stores
	logger *slog.Logger
}

func NewHandler(stores Stores, logger *slog.Logger) *Handler {
	return &Handler{stores: stores, logger: logger}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/dashboard", h.Summary)
}

func (h *Handler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	collections, err := h.stores.Load(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load dashboard data", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard data"})
		return
	}

	c.JSON(http.StatusOK, Summarize(collections))
}
