package crud

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ViewRecorder counts reads and writes per record kind.
type ViewRecorder interface {
	RecordListViewed(ctx context.Context, entity string)
	RecordDetailViewed(ctx context.Context, entity string)
	RecordMutation(ctx context.Context, entity string, op string)
}

// Expander turns stored records into their display form, e.g. resolving
// foreign keys to names.
type Expander[T any] interface {
	Expand(ctx context.Context, items []T) ([]any, error)
}

type Handler[T Entity[T]] struct {
	kind     Kind
	store    Store[T]
	expander Expander[T]
	logger   *slog.Logger
	metrics  ViewRecorder
}

type HandlerOption[T Entity[T]] func(*Handler[T])

// WithExpander sets the display transformation applied to list and detail
// responses.
func WithExpander[T Entity[T]](e Expander[T]) HandlerOption[T] {
	return func(h *Handler[T]) { h.expander = e }
}

func NewHandler[T Entity[T]](kind Kind, store Store[T], logger *slog.Logger, metrics ViewRecorder, opts ...HandlerOption[T]) *Handler[T] {
	h := &Handler[T]{
		kind:    kind,
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler[T]) RegisterRoutes(router gin.IRouter) {
	base := "/" + h.kind.Plural
	router.GET(base, h.List)
	router.GET(base+"/:id", h.Get)
	router.POST(base, h.Create)
	router.PUT(base+"/:id", h.Update)
	router.DELETE(base+"/:id", h.Delete)
}

func (h *Handler[T]) List(c *gin.Context) {
	ctx := c.Request.Context()
	h.logger.InfoContext(ctx, "listing records", "entity", h.kind.Plural)

	items, err := h.store.List(ctx)
	if err != nil {
		h.handleError(c, err)
		return
	}
	items = Filter(items, c.Query("status"), c.Query("q"))

	out, err := h.expand(ctx, items)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.metrics.RecordListViewed(ctx, h.kind.Name)
	c.JSON(http.StatusOK, out)
}

func (h *Handler[T]) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	h.logger.InfoContext(ctx, "fetching record", "entity", h.kind.Name, "id", id)

	rec, err := h.store.Get(ctx, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.metrics.RecordDetailViewed(ctx, h.kind.Name)
	h.respondOne(c, http.StatusOK, rec)
}

func (h *Handler[T]) Create(c *gin.Context) {
	var rec T
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	ctx := c.Request.Context()
	h.logger.InfoContext(ctx, "creating record", "entity", h.kind.Name)

	created, err := h.store.Create(ctx, rec)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.metrics.RecordMutation(ctx, h.kind.Name, string(OpCreate))
	h.respondOne(c, http.StatusCreated, created)
}

func (h *Handler[T]) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var rec T
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	rec = rec.WithIdentity(id, time.Time{})

	ctx := c.Request.Context()
	h.logger.InfoContext(ctx, "updating record", "entity", h.kind.Name, "id", id)

	updated, err := h.store.Update(ctx, rec)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.metrics.RecordMutation(ctx, h.kind.Name, string(OpUpdate))
	h.respondOne(c, http.StatusOK, updated)
}

func (h *Handler[T]) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if confirmed, _ := strconv.ParseBool(c.Query("confirm")); !confirmed {
		h.handleError(c, ErrConfirmationRequired)
		return
	}
	ctx := c.Request.Context()
	h.logger.InfoContext(ctx, "deleting record", "entity", h.kind.Name, "id", id)

	if err := h.store.Delete(ctx, id); err != nil {
		h.handleError(c, err)
		return
	}

	h.metrics.RecordMutation(ctx, h.kind.Name, string(OpDelete))
	c.Status(http.StatusNoContent)
}

func (h *Handler[T]) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + h.kind.Name + " id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler[T]) respondOne(c *gin.Context, status int, rec T) {
	out, err := h.expand(c.Request.Context(), []T{rec})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(status, out[0])
}

func (h *Handler[T]) expand(ctx context.Context, items []T) ([]any, error) {
	if h.expander != nil {
		return h.expander.Expand(ctx, items)
	}
	out := make([]any, len(items))
	for i, rec := range items {
		out[i] = rec
	}
	return out, nil
}

func (h *Handler[T]) handleError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	switch {
	case errors.Is(err, ErrNotFound):
		h.logger.InfoContext(ctx, "record not found", "entity", h.kind.Name)
		c.JSON(http.StatusNotFound, gin.H{"error": h.kind.Name + " not found"})
	case errors.Is(err, ErrValidation):
		h.logger.InfoContext(ctx, "invalid input", "entity", h.kind.Name, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrConfirmationRequired):
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": "add confirm=true to delete this " + h.kind.Name})
	default:
		h.logger.ErrorContext(ctx, "internal error", "entity", h.kind.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
