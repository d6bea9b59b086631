package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"penbridge/handlers"
	"penbridge/metrics"
	"penbridge/middleware"
)

// Deps is everything the router needs to serve requests.
type Deps struct {
	Handler     *handlers.Handler
	Logger      *zap.Logger
	Metrics     *metrics.Collector
	CORSOrigins []string
}

func SetupRouter(deps Deps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger, deps.Metrics))
	router.Use(cors.New(corsConfig(deps.CORSOrigins)))

	h := deps.Handler

	router.GET("/health", h.Health)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := router.Group("/api")
	api.POST("/transcribe", h.Transcribe)
	api.POST("/claude", h.Claude)

	wp := api.Group("/wordpress")
	wp.POST("/categories", h.CreateCategory)
	wp.POST("/media", h.UploadMedia)
	wp.POST("/posts", h.CreatePost)

	// Catch-all for undefined API routes
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}

// corsConfig allows every origin unless a list is configured. Credentials are
// only allowed with an explicit list, since "*" cannot carry them.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Type", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
