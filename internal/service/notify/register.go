package notify

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/winklab/wink-backend/internal/httperr"
)

// Registrar ties the notification endpoints into the HTTP router.
type Registrar struct {
	svc *Service
}

// NewRegistrar creates a Registrar for an already-wired Service.
func NewRegistrar(svc *Service) *Registrar {
	return &Registrar{svc: svc}
}

// Register attaches the notification routes to the given group.
func (r *Registrar) Register(rg *gin.RouterGroup) {
	rg.GET("/users/:id/notifications", r.list)
	rg.GET("/users/:id/notifications/unread-count", r.unreadCount)
	rg.PATCH("/users/:id/notifications/read-all", r.markAllRead)
	rg.PATCH("/notifications/:id/read", r.markRead)
}

func (r *Registrar) list(c *gin.Context) {
	notifications, err := r.svc.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (r *Registrar) unreadCount(c *gin.Context) {
	count, err := r.svc.UnreadCount(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (r *Registrar) markRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.Respond(c, httperr.InvalidInput("notification id must be numeric"))
		return
	}
	if err := r.svc.MarkRead(c.Request.Context(), id); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (r *Registrar) markAllRead(c *gin.Context) {
	if err := r.svc.MarkAllRead(c.Request.Context(), c.Param("id")); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
