package handler

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"roomie/internal/config"
)

// BuildInfo is stamped at build time via -ldflags
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// NewRouter builds the gin engine with middleware and all routes
func NewRouter(cfg *config.ServerConfig, build BuildInfo, assistant Asker) *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(corsConfig(cfg)))
	router.Use(RequestID())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"service":    "roomie-assistant",
			"version":    build.Version,
			"build_time": build.BuildTime,
			"git_commit": build.GitCommit,
		})
	})

	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    build.Version,
			"build_time": build.BuildTime,
			"git_commit": build.GitCommit,
		})
	})

	assistantHandler := NewAssistantHandler(assistant)
	limit := RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)

	router.POST("/ai", limit, assistantHandler.Ask)
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/ai", limit, assistantHandler.Ask)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "404 Not Found"})
	})

	return router
}

func corsConfig(cfg *config.ServerConfig) cors.Config {
	corsCfg := cors.DefaultConfig()
	origins := splitList(cfg.AllowedOrigins)
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	if methods := splitList(cfg.AllowedMethods); len(methods) > 0 {
		corsCfg.AllowMethods = methods
	}
	if headers := splitList(cfg.AllowedHeaders); len(headers) > 0 {
		corsCfg.AllowHeaders = headers
	}
	corsCfg.ExposeHeaders = []string{RequestIDHeader}
	return corsCfg
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
