package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ExportRecorder counts downloaded reports.
type ExportRecorder interface {
	RecordReportExported(ctx context.Context, report string)
}

type Handler struct {
	generator *Generator
	logger    *slog.Logger
	metrics   ExportRecorder
}

func NewHandler(generator *Generator, logger *slog.Logger, metrics ExportRecorder) *Handler {
	return &Handler{generator: generator, logger: logger, metrics: metrics}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/reports/:kind", h.Download)
}

func (h *Handler) Download(c *gin.Context) {
	ctx := c.Request.Context()
	kind := Kind(c.Param("kind"))

	var buf bytes.Buffer
	if err := h.generator.Write(ctx, kind, &buf); err != nil {
		if errors.Is(err, ErrUnknownReport) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.ErrorContext(ctx, "failed to build report", "report", kind, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	h.metrics.RecordReportExported(ctx, string(kind))
	filename := fmt.Sprintf("%s-%s.csv", kind, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
