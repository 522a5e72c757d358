package billing

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
)

const maxWebhookBodyBytes = 64 << 10

// WebhookHandler receives Stripe webhooks.
type WebhookHandler struct {
	Svc      *Service
	Verifier Verifier
}

func NewWebhookHandler(svc *Service, secret string) *WebhookHandler {
	return &WebhookHandler{Svc: svc, Verifier: Verifier{Secret: secret}}
}

func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/stripe", h.stripe)
}

func (h *WebhookHandler) stripe(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		metrics.IncWebhookEvent("rejected")
		respond.Error(c, http.StatusBadRequest, "invalid_payload", "unable to read request body", nil)
		return
	}

	ev, err := h.Verifier.Parse(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		metrics.IncWebhookEvent("rejected")
		if errors.Is(err, ErrInvalidSignature) {
			respond.Error(c, http.StatusBadRequest, "invalid_signature", "webhook signature verification failed", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "invalid_payload", "malformed webhook payload", nil)
		return
	}

	if _, err := Classify(ev); err != nil {
		metrics.IncWebhookEvent("ignored")
		telemetry.Info("billing.event_ignored", map[string]any{"event_id": ev.ID, "event_type": string(ev.Type)})
		respond.OK(c, gin.H{"received": true, "ignored": true})
		return
	}

	res, err := h.Svc.Handle(c.Request.Context(), ev)
	switch {
	case err != nil || res.Flagged:
		metrics.IncWebhookEvent("flagged")
	case res.Changed:
		metrics.IncWebhookEvent("applied")
	default:
		metrics.IncWebhookEvent("noop")
	}
	respond.OK(c, gin.H{
		"received":  true,
		"operation": res.Operation,
		"changed":   res.Changed,
		"flagged":   res.Flagged,
	})
}
