package webserver

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stake-plus/guildpulse/src/engagement"
	"github.com/stake-plus/guildpulse/src/suggestions"
	"go.uber.org/zap"
)

// Snapshotter yields the current engagement document.
type Snapshotter interface {
	Snapshot() engagement.Document
}

// Config controls the HTTP surface.
type Config struct {
	JWTSecret   []byte
	CORSOrigins []string
	// RateLimit is the number of requests per minute allowed per client; 0 disables it.
	RateLimit int
}

// Server bundles the router with the limiter it sweeps.
type Server struct {
	Engine  *gin.Engine
	Limiter *RateLimiter
}

// New builds the router. stats or registry may be nil when the matching
// module is disabled; their routes then answer 503.
func New(cfg Config, stats Snapshotter, registry suggestions.Registry, log *zap.Logger) *Server {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	srv := &Server{Engine: r}
	if cfg.RateLimit > 0 {
		srv.Limiter = NewRateLimiter(cfg.RateLimit, time.Minute)
		r.Use(RateLimitMiddleware(srv.Limiter))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	statsH := &Stats{source: stats}
	suggestH := &Suggestions{registry: registry}

	v1 := r.Group("/v1")
	{
		v1.GET("/leaderboard/activity", statsH.Activity)
		v1.GET("/leaderboard/words", statsH.Words)
		v1.GET("/users/:id", statsH.User)

		secured := v1.Group("/suggestions")
		if len(cfg.JWTSecret) > 0 {
			secured.Use(JWTMiddleware(cfg.JWTSecret))
		}
		secured.GET("", suggestH.List)
		secured.GET("/:id", suggestH.Get)
	}

	return srv
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "If-None-Match"},
		ExposeHeaders: []string{"Content-Length", "ETag"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("api: request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("client", c.ClientIP()))
	}
}
