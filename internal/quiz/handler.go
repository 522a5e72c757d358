package quiz

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/wizard"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resumes/:id/quiz", h.current)
	rg.POST("/resumes/:id/quiz/next", h.next)
	rg.POST("/resumes/:id/quiz/back", h.back)
	rg.POST("/resumes/:id/quiz/save-exit", h.saveExit)
}

type answerRequest struct {
	Value string `json:"value"`
	// At is position.index+1 from a previous response.
	At int `json:"at" binding:"min=0"`
}

func (h *Handler) current(c *gin.Context) {
	view, err := h.Svc.Current(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, view)
}

func (h *Handler) next(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	view, err := h.Svc.Next(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), req.At, req.Value)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, view)
}

func (h *Handler) back(c *gin.Context) {
	var req answerRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}
	view, err := h.Svc.Back(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), req.At)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, view)
}

func (h *Handler) saveExit(c *gin.Context) {
	view, err := h.Svc.SaveAndExit(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, view)
}

func writeError(c *gin.Context, err error) {
	var verr *wizard.ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", verr.Message, gin.H{"field": verr.Field})
	case errors.Is(err, wizard.ErrComplete):
		respond.Error(c, http.StatusConflict, "quiz_complete", err.Error(), nil)
	case errors.Is(err, resumes.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case resumes.IsClientError(err):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update quiz", nil)
	}
}
