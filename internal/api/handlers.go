// Package api serves digests over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deusflow/digest/internal/app"
	"github.com/deusflow/digest/internal/news"
	"github.com/deusflow/digest/internal/newsletter"
	"github.com/deusflow/digest/internal/profiles"
	"github.com/deusflow/digest/internal/storage"
)

// Service is what the handlers need from the application. *app.App
// satisfies it.
type Service interface {
	Profiles() []news.Profile
	Profile(name string) (news.Profile, error)
	Generate(ctx context.Context, name string) (app.Digest, error)
	Export(d app.Digest) (storage.ExportRecord, error)
	Exports() []storage.ExportRecord
	InvalidateCache()
	Stats() map[string]interface{}
}

// Handler holds the HTTP handlers.
type Handler struct {
	svc Service
}

// NewHandler returns handlers over svc.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	LastRun   any    `json:"last_run,omitempty"`
	LastError any    `json:"last_error,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Health reports 503 after a failed run until the next successful one.
func (h *Handler) Health(c *gin.Context) {
	stats := h.svc.Stats()

	resp := HealthResponse{
		Status:    "ok",
		LastRun:   stats["last_run_time"],
		LastError: stats["last_error"],
		Timestamp: time.Now().Unix(),
	}
	code := http.StatusOK
	if healthy, ok := stats["is_healthy"].(bool); ok && !healthy {
		resp.Status = "error"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

func (h *Handler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Stats())
}

func (h *Handler) ListProfiles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"profiles": h.svc.Profiles()})
}

func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.svc.Profile(c.Param("name"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Generate builds a digest and returns it as JSON.
func (h *Handler) Generate(c *gin.Context) {
	d, ok := h.generate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, d)
}

// Export builds a digest, records it in the export directory and returns
// the markdown as an attachment.
func (h *Handler) Export(c *gin.Context) {
	d, ok := h.generate(c)
	if !ok {
		return
	}
	if _, err := h.svc.Export(d); err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.Filename()))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(d.Markdown))
}

// HTML builds a digest and returns it as sanitized HTML.
func (h *Handler) HTML(c *gin.Context) {
	d, ok := h.generate(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(newsletter.HTML(d.Markdown)))
}

func (h *Handler) ListExports(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"exports": h.svc.Exports()})
}

func (h *Handler) InvalidateCache(c *gin.Context) {
	h.svc.InvalidateCache()
	c.Status(http.StatusNoContent)
}

func (h *Handler) generate(c *gin.Context) (app.Digest, bool) {
	d, err := h.svc.Generate(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.fail(c, err)
		return app.Digest{}, false
	}
	return d, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	if errors.Is(err, profiles.ErrUnknownProfile) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
