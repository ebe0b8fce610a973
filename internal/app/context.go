package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/winklab/wink-backend/internal/cache"
)

// Context holds shared dependencies (DB, Redis, Logger).
// The real-time hub is deliberately not carried here: components that
// publish receive the hub as an explicit constructor argument.
type Context struct {
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
}

// New creates a new app Context.
func New(db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger) *Context {
	return &Context{
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
	}
}
