package profiles

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

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
	rg.GET("/me", h.me)
	rg.GET("/onboarding", h.onboarding)
	rg.POST("/onboarding/next", h.onboardingNext)
	rg.POST("/onboarding/back", h.onboardingBack)
}

func (h *Handler) me(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	if middleware.IsGuest(c) {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		return
	}
	p, err := h.Svc.GetByID(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"id":                    p.ID,
		"email":                 p.Email,
		"fullName":              p.FullName,
		"pictureUrl":            p.PictureURL,
		"subscriptionPlan":      p.Billing.Plan,
		"subscriptionStatus":    p.Billing.Status,
		"hasActiveSubscription": p.HasActiveSubscription(),
		"onboardingCompleted":   p.OnboardingCompleted,
	})
}

type answerRequest struct {
	Value string `json:"value"`
}

func (h *Handler) onboarding(c *gin.Context) {
	view, err := h.Svc.Onboarding(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load onboarding", nil)
		return
	}
	respond.OK(c, view)
}

func (h *Handler) onboardingNext(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	view, err := h.Svc.OnboardingNext(c.Request.Context(), middleware.UserIDFromContext(c), req.Value)
	if err != nil {
		writeWizardError(c, err)
		return
	}
	respond.OK(c, view)
}

func (h *Handler) onboardingBack(c *gin.Context) {
	view, err := h.Svc.OnboardingBack(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update onboarding", nil)
		return
	}
	respond.OK(c, view)
}

func writeWizardError(c *gin.Context, err error) {
	var verr *wizard.ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", verr.Message, gin.H{"field": verr.Field})
	case errors.Is(err, wizard.ErrComplete):
		respond.Error(c, http.StatusConflict, "wizard_complete", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update onboarding", nil)
	}
}
