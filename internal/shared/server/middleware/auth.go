package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/server/respond"
)

const (
	identityKey = "identity"
	// userIDKey is also read by respond.Error.
	userIDKey  = "userId"
	isGuestKey = "isGuest"

	guestPrefix      = "guest:"
	maxGuestIDLen    = 64
	guestIDHeader    = "X-Guest-Id"
	bearerPrefix     = "Bearer "
	codeUnauthorized = "unauthorized"
)

// Identity is the caller of an authenticated request.
type Identity struct {
	UserID  string
	Email   string
	Name    string
	Picture string
	Guest   bool
}

var publicPrefixes = []string{
	"/api/v1/auth/google/",
	"/api/v1/webhooks/",
	"/api/v1/health",
	"/metrics",
	"/files/",
}

// Auth resolves the caller from a Bearer JWT or, failing that, an
// X-Guest-Id header. In production guest ids must be UUIDs.
func Auth(env string) gin.HandlerFunc {
	strictGuests := env == "production"
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		if isPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		if header := strings.TrimSpace(c.GetHeader("Authorization")); header != "" {
			token, ok := strings.CutPrefix(header, bearerPrefix)
			if !ok || strings.TrimSpace(token) == "" {
				respond.Error(c, http.StatusUnauthorized, codeUnauthorized, "missing or invalid token", nil)
				return
			}
			claims, err := auth.VerifyJWT(strings.TrimSpace(token))
			if err != nil {
				respond.Error(c, http.StatusUnauthorized, codeUnauthorized, "missing or invalid token", nil)
				return
			}
			setIdentity(c, Identity{
				UserID:  claims.Subject,
				Email:   claims.Email,
				Name:    claims.Name,
				Picture: claims.Picture,
			})
			c.Next()
			return
		}

		guestID := strings.TrimSpace(c.GetHeader(guestIDHeader))
		if guestID == "" {
			respond.Error(c, http.StatusUnauthorized, codeUnauthorized, "missing identity", nil)
			return
		}
		if !validGuestID(guestID, strictGuests) {
			respond.Error(c, http.StatusUnauthorized, codeUnauthorized, "invalid guest id", nil)
			return
		}
		setIdentity(c, Identity{UserID: guestPrefix + guestID, Guest: true})
		c.Next()
	}
}

func setIdentity(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
	c.Set(userIDKey, id.UserID)
	c.Set(isGuestKey, id.Guest)
}

func validGuestID(id string, strict bool) bool {
	if strict {
		_, err := uuid.Parse(id)
		return err == nil
	}
	if len(id) > maxGuestIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

func isPublicPath(path string) bool {
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// IdentityFromContext returns the caller set by Auth, if any.
func IdentityFromContext(c *gin.Context) (Identity, bool) {
	if c == nil {
		return Identity{}, false
	}
	val, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := val.(Identity)
	return id, ok
}

// UserIDFromContext falls back to a bare "userId" value so handlers can be
// mounted behind other authenticators.
func UserIDFromContext(c *gin.Context) string {
	if id, ok := IdentityFromContext(c); ok {
		return id.UserID
	}
	if c == nil {
		return ""
	}
	return c.GetString(userIDKey)
}

func UserEmailFromContext(c *gin.Context) string {
	id, _ := IdentityFromContext(c)
	return id.Email
}

func IsGuest(c *gin.Context) bool {
	if id, ok := IdentityFromContext(c); ok {
		return id.Guest
	}
	if c == nil {
		return false
	}
	return c.GetBool(isGuestKey)
}
