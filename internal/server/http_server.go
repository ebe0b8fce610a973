package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/winklab/wink-backend/internal/config"
	"github.com/winklab/wink-backend/internal/realtime"
)

// NewRouter assembles the gin engine: middleware, CORS allow-list, health
// endpoint, the websocket endpoint, and every registrar's routes under /api.
func NewRouter(cfg *config.Config, log *slog.Logger, hub *realtime.Hub, handle realtime.EventHandler, registrars ...Registrar) *gin.Engine {
	if cfg.App.ENV != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ws", realtime.Handler(hub, log, handle))

	api := r.Group("/api")
	for _, reg := range registrars {
		reg.Register(api)
	}

	return r
}

// Start boots the HTTP server and blocks until it exits.
func Start(cfg *config.Config, log *slog.Logger, hub *realtime.Hub, handle realtime.EventHandler, registrars ...Registrar) error {
	r := NewRouter(cfg, log, hub, handle, registrars...)
	addr := fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port)
	return r.Run(addr)
}
