package profiles

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
)

// PricingPath is where gated requests are redirected.
const PricingPath = "/pricing"

// RequireActiveSubscription stops paid operations before they run when the
// caller has no active subscription.
func RequireActiveSubscription(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserIDFromContext(c)
		active, err := svc.HasActiveSubscription(c.Request.Context(), userID)
		if err != nil {
			telemetry.Error("gate.lookup_failed", map[string]any{"user_id": userID, "error": err.Error()})
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to check subscription", nil)
			return
		}
		if !active {
			respond.Error(c, http.StatusPaymentRequired, "subscription_required",
				"an active subscription is required", gin.H{"redirect": PricingPath})
			return
		}
		c.Next()
	}
}
