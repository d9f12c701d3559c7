package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tablesafe.app/concierge/internal/http/handler"
)

type RouterConfig struct {
	// StaticDir is served at the root path when non-empty.
	StaticDir string
}

func SetupRoutes(router *gin.Engine, pipeline handler.Pipeline, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		vetHandler := handler.NewVetHandler(pipeline)
		v1.POST("/vet", vetHandler.Vet)
	}

	if cfg.StaticDir != "" {
		router.StaticFile("/", cfg.StaticDir+"/index.html")
		router.Static("/static", cfg.StaticDir)
	}
}
