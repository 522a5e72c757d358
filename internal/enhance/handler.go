package enhance

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/llm"
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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/enhance", h.enhance)
	rg.POST("/resumes/:id/enhancement", h.start)
	rg.GET("/resumes/:id/enhancement", h.status)
}

type enhanceRequest struct {
	Text           string `json:"text"`
	Responsibility string `json:"responsibility"`
	JobTitle       string `json:"jobTitle" binding:"max=200"`
}

type statusResponse struct {
	ResumeID         string                   `json:"resumeId"`
	CompletionStatus resumes.CompletionStatus `json:"completionStatus"`
	Resume           *resumes.Resume          `json:"resume,omitempty"`
}

func (h *Handler) enhance(c *gin.Context) {
	var req enhanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	kind, text, key := llm.KindSummary, req.Text, "enhancedText"
	if strings.TrimSpace(text) == "" {
		kind, text, key = llm.KindResponsibility, req.Responsibility, "enhanced"
	}
	out, err := h.Svc.EnhanceText(c.Request.Context(), llm.Request{Kind: kind, Text: text, JobTitle: req.JobTitle})
	if err != nil {
		if errors.Is(err, ErrEmptyText) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "text or responsibility is required", nil)
			return
		}
		respond.Error(c, http.StatusBadGateway, "enhancement_failed", "failed to enhance text", nil)
		return
	}
	respond.OK(c, gin.H{key: out})
}

func (h *Handler) start(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")
	if err := h.Svc.Start(c.Request.Context(), userID, resumeID); err != nil {
		writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusAccepted, statusResponse{ResumeID: resumeID, CompletionStatus: resumes.StatusEnhancing})
}

func (h *Handler) status(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")
	if c.Query("wait") != "true" {
		doc, err := h.Svc.Docs.GetByID(c.Request.Context(), userID, resumeID)
		if err != nil {
			writeError(c, err)
			return
		}
		respond.OK(c, statusResponse{ResumeID: resumeID, CompletionStatus: doc.CompletionStatus, Resume: &doc})
		return
	}
	doc, err := h.Svc.Await(c.Request.Context(), userID, resumeID)
	if errors.Is(err, ErrAwaitTimeout) {
		respond.Error(c, http.StatusGatewayTimeout, "enhancement_timeout", "enhancement timed out, start it again to retry",
			statusResponse{ResumeID: resumeID, CompletionStatus: doc.CompletionStatus})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, statusResponse{ResumeID: resumeID, CompletionStatus: doc.CompletionStatus, Resume: &doc})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, resumes.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, resumes.ErrInvalidTransition):
		respond.Error(c, http.StatusConflict, "invalid_transition", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "enhancement failed", nil)
	}
}
