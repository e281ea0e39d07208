// Package server exposes the catalog and the reason store over HTTP.
package server

import (
	"github.com/gin-gonic/gin"

	"github.com/rcliao/nah-machine/internal/logger"
)

type RouterConfig struct {
	CatalogHandler *CatalogHandler
	StateHandler   *StateHandler
	HealthHandler  *HealthHandler

	Logger       *logger.Logger
	AllowOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(cfg.Logger))
	if len(cfg.AllowOrigins) > 0 {
		r.Use(CORS(cfg.AllowOrigins))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	// Catalog
	if h := cfg.CatalogHandler; h != nil {
		no := r.Group("/no")
		no.GET("", h.Random)
		no.GET("/multiple", h.Multiple)
		no.GET("/category/:category", h.ByCategory)
		no.GET("/categories", h.Categories)
		no.GET("/stats", h.Stats)
	}

	// State
	if h := cfg.StateHandler; h != nil {
		s := h.Machine.Store()
		api := r.Group("/api")
		api.GET("/state", h.Get)
		api.GET("/favorites", h.Favorites)

		api.POST("/reason/refresh", h.Refresh)
		api.POST("/reason/generate", h.Generate)
		api.POST("/reason/like", h.ToggleLike)
		api.POST("/reason/save", h.ToggleSave)

		api.POST("/liked", h.Mutate(s.AddToLiked))
		api.DELETE("/liked", h.Mutate(s.RemoveFromLiked))
		api.POST("/saved", h.Mutate(s.AddToSaved))
		api.DELETE("/saved", h.Mutate(s.RemoveFromSaved))
		api.DELETE("/recent", h.ClearRecent)
	}

	return r
}
