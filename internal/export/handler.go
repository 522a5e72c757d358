package export

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes mounts the export route; callers gate rg on an active
// subscription.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resumes/:id/export.pdf", h.exportPDF)
}

func (h *Handler) exportPDF(c *gin.Context) {
	res, err := h.Svc.Export(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, resumes.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		case errors.Is(err, ErrPrint), errors.Is(err, ErrInvalidPDF):
			respond.Error(c, http.StatusBadGateway, "export_failed", "failed to print resume", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to export resume", nil)
		}
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	c.Header("X-Page-Count", strconv.Itoa(res.Pages))
	c.Data(http.StatusOK, "application/pdf", res.PDF)
}
