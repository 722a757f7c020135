package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"interview-coach/internal/shared/config"
	"interview-coach/internal/shared/metrics"
	"interview-coach/internal/shared/server/middleware"
	"interview-coach/internal/shared/server/respond"
)

// Registrar attaches a feature's routes to the API group.
type Registrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// evaluation-backed routes share a tighter rate-limit bucket than plain reads
const evaluationGroup = "EVALUATION"

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config, registrars ...Registrar) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"DEFAULT":       {Rate: 10, Burst: 30},
				evaluationGroup: {Rate: 0.5, Burst: 5},
			},
			GroupFor: rateLimitGroup,
		}),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	for _, registrar := range registrars {
		registrar.RegisterRoutes(api)
	}

	return r
}

func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return ""
	}
	path := c.FullPath()
	switch {
	case strings.HasSuffix(path, "/evaluate"),
		strings.HasSuffix(path, "/clarify"),
		strings.HasSuffix(path, "/questions"),
		strings.HasSuffix(path, "/attempts"),
		strings.Contains(path, "/speech/"):
		return evaluationGroup
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
