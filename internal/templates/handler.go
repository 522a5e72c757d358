package templates

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// Documents loads a resume owned by a user.
type Documents interface {
	Get(ctx context.Context, userID, resumeID string) (resumes.Resume, error)
}

type Handler struct {
	Svc  *Service
	Docs Documents
}

func NewHandler(svc *Service, docs Documents) *Handler {
	return &Handler{Svc: svc, Docs: docs}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/templates", h.list)
	rg.GET("/templates/:id", h.get)
	rg.GET("/resumes/:id/render", h.render)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load templates", nil)
		return
	}
	respond.OK(c, gin.H{"items": items})
}

func (h *Handler) get(c *gin.Context) {
	d, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, d)
}

func (h *Handler) render(c *gin.Context) {
	ctx := c.Request.Context()
	doc, err := h.Docs.Get(ctx, middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, resumes.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load resume", nil)
		return
	}
	body, err := h.Svc.Render(ctx, doc, ParseMode(c.Query("mode")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "template_not_found", "template not found", nil)
	case errors.Is(err, ErrInvalidDescriptor), errors.Is(err, ErrUnknownIcon):
		respond.Error(c, http.StatusInternalServerError, "template_invalid", "template configuration is invalid", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render template", nil)
	}
}
