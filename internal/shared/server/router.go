package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/services/health"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// Routes is implemented by every feature handler.
type Routes interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries the handlers mounted on the API.
type RouterDeps struct {
	Config config.Config
	// Gate aborts requests from users without an active subscription.
	Gate   gin.HandlerFunc
	Health *health.Service

	GoogleAuth Routes
	Webhooks   Routes
	Profiles   Routes
	Resumes    Routes
	Quiz       Routes
	Templates  Routes
	Scoring    Routes
	Enhance    Routes
	Images     Routes
	Export     Routes

	// FilesDir is served under /files when the local object store is used.
	FilesDir string
}

const pollingGroup = "POLLING"

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"DEFAULT":    {Rate: 5, Burst: 20},
				pollingGroup: {Rate: 2, Burst: 10},
			},
			GroupFor: rateGroup,
		}),
	)

	r.GET("/metrics", metrics.Handler())
	if deps.FilesDir != "" {
		r.Static("/files", deps.FilesDir)
	}

	api := r.Group("/api/v1")
	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}
	api.GET("/health", func(c *gin.Context) {
		report := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})

	for _, h := range []Routes{
		deps.GoogleAuth,
		deps.Webhooks,
		deps.Profiles,
		deps.Resumes,
		deps.Quiz,
		deps.Templates,
		deps.Scoring,
		deps.Enhance,
		deps.Images,
	} {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}

	if deps.Export != nil {
		gated := api.Group("")
		if deps.Gate != nil {
			gated.Use(deps.Gate)
		}
		deps.Export.RegisterRoutes(gated)
	}

	return r
}

// rateGroup puts enhancement status polling in its own bucket so a client
// waiting on a job does not starve its other requests.
func rateGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodGet && strings.HasSuffix(c.Request.URL.Path, "/enhancement") {
		return pollingGroup
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
