// Package server exposes the platform over HTTP.
package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"agent-eval/internal"
	"agent-eval/internal/config"
)

// SetupRouter builds the gin engine with all routes registered
func SetupRouter(platform *internal.Platform) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", HealthCheck)

	githubGroup := router.Group("/github")
	{
		githubGroup.POST("/extract", ExtractDataset(platform))
		githubGroup.GET("/datasets", ListDatasets(platform))
		githubGroup.GET("/datasets/:id", GetDataset(platform))
		githubGroup.GET("/issues/:owner/:repo/:number", GetIssue(platform))
	}

	promptsGroup := router.Group("/prompts")
	{
		promptsGroup.POST("/generate", GeneratePrompts(platform))
		promptsGroup.GET("/:dataset_id", GetPrompts(platform))
	}

	evaluateGroup := router.Group("/evaluate")
	{
		evaluateGroup.POST("/diff", EvaluateDiff(platform))
		evaluateGroup.POST("/pr", EvaluatePR(platform))
	}

	return router
}

// Serve runs the HTTP API until the listener fails
func Serve(cfg *config.Config, platform *internal.Platform) error {
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := SetupRouter(platform)

	slog.Info("Starting HTTP API", "addr", cfg.ListenAddr)
	return router.Run(cfg.ListenAddr)
}
