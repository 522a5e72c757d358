package scoring

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
	Docs Documents
}

func NewHandler(docs Documents) *Handler {
	return &Handler{Docs: docs}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resumes/:id/score", h.score)
}

func (h *Handler) score(c *gin.Context) {
	doc, err := h.Docs.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, resumes.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load resume", nil)
		return
	}
	respond.OK(c, Score(doc))
}
