package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/winklab/wink-backend/internal/app"
	"github.com/winklab/wink-backend/internal/cache"
	"github.com/winklab/wink-backend/internal/config"
	"github.com/winklab/wink-backend/internal/db"
	"github.com/winklab/wink-backend/internal/identity"
	"github.com/winklab/wink-backend/internal/logger"
	"github.com/winklab/wink-backend/internal/realtime"
	"github.com/winklab/wink-backend/internal/repository"
	"github.com/winklab/wink-backend/internal/server"
	"github.com/winklab/wink-backend/internal/service/chat"
	"github.com/winklab/wink-backend/internal/service/match"
	"github.com/winklab/wink-backend/internal/service/notify"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(database, redisCache, log)

	// Room router and services, wired explicitly: the hub is handed to
	// whoever publishes, never reached through globals.
	hub := realtime.NewHub(log)
	resolver := identity.NewProfileResolver(repository.NewProfileRepository(database))

	notifySvc := notify.NewService(appCtx, hub)
	chatSvc := chat.NewService(appCtx, hub, notifySvc, resolver)
	matchSvc := match.NewService(appCtx, notifySvc, resolver)

	registrars := []server.Registrar{
		match.NewRegistrar(matchSvc),
		chat.NewRegistrar(chatSvc),
		notify.NewRegistrar(notifySvc),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedDemoData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting http server", "addr", addr)

	dispatch := server.EventDispatcher(hub, chatSvc, log)
	if err := server.Start(cfg, log, hub, dispatch, registrars...); err != nil {
		log.Error("failed to start http server", "err", err)
	}
}
