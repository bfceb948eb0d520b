package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"nutricoach-backend/internal/checkins"
	"nutricoach-backend/internal/recommendations"
	"nutricoach-backend/internal/shared/config"
	"nutricoach-backend/internal/shared/metrics"
	"nutricoach-backend/internal/shared/server/middleware"
	"nutricoach-backend/internal/shared/server/respond"
)

const (
	apiPrefix = "/api/v1"

	rateLimitDefault   = "DEFAULT"
	rateLimitNormalize = "NORMALIZE"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps carries the handlers and dependencies the router mounts.
type RouterDeps struct {
	Config                config.Config
	CheckinHandler        *checkins.Handler
	RecommendationHandler *recommendations.Handler
	// DB is optional; when set /ready pings it.
	DB      Pinger
	Limiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		metrics.Middleware(),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group(apiPrefix)
	api.Use(
		middleware.Auth(apiPrefix+"/health", apiPrefix+"/ready"),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				rateLimitDefault:   {Rate: deps.Config.RateLimitRPS, Burst: deps.Config.RateLimitBurst},
				rateLimitNormalize: {Rate: deps.Config.RateLimitNormalizeRPS, Burst: deps.Config.RateLimitNormalizeBurst},
			},
			DefaultGroup: rateLimitDefault,
			GroupFor:     rateLimitGroup,
			Limiter:      deps.Limiter,
		}),
	)

	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/ready", readyHandler(deps.DB))
	registerMeRoutes(api)

	if deps.CheckinHandler != nil {
		deps.CheckinHandler.RegisterRoutes(api)
	}
	if deps.RecommendationHandler != nil {
		deps.RecommendationHandler.RegisterRoutes(api)
	}

	return r
}

func rateLimitGroup(c *gin.Context) string {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	if strings.HasPrefix(path, apiPrefix+"/recommendations/") {
		return rateLimitNormalize
	}
	return rateLimitDefault
}

func readyHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			respond.OK(c, gin.H{"ok": true, "database": "memory"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			respond.Error(c, http.StatusServiceUnavailable, "not_ready", "database unreachable", nil)
			return
		}
		respond.OK(c, gin.H{"ok": true, "database": "postgres"})
	}
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
