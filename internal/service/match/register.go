package match

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/winklab/wink-backend/internal/httperr"
	"github.com/winklab/wink-backend/internal/pair"
)

// Registrar ties the swipe/match endpoints into the HTTP router.
type Registrar struct {
	svc *Service
}

// NewRegistrar creates a Registrar for an already-wired Service.
func NewRegistrar(svc *Service) *Registrar {
	return &Registrar{svc: svc}
}

// Register attaches the swipe/match routes to the given group.
func (r *Registrar) Register(rg *gin.RouterGroup) {
	rg.POST("/swipes", r.swipe)
	rg.DELETE("/matches/:key", r.unmatch)
	rg.GET("/users/:id/discover", r.discover)
	rg.GET("/users/:id/matches", r.matches)
	rg.GET("/users/:id/matches/summary", r.matchSummaries)
}

type swipeRequest struct {
	Actor    string `json:"actor"`
	Target   string `json:"target"`
	Decision string `json:"decision"`
}

func (r *Registrar) swipe(c *gin.Context) {
	var req swipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.InvalidInput("invalid request body"))
		return
	}
	matched, err := r.svc.RecordSwipe(c.Request.Context(), req.Actor, req.Target, req.Decision)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matched": matched})
}

func (r *Registrar) unmatch(c *gin.Context) {
	userA, userB, err := pair.Parse(c.Param("key"))
	if err != nil {
		httperr.Respond(c, httperr.InvalidInput("invalid pair key"))
		return
	}
	if err := r.svc.Unmatch(c.Request.Context(), userA, userB); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (r *Registrar) discover(c *gin.Context) {
	profiles, err := r.svc.Discover(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

func (r *Registrar) matches(c *gin.Context) {
	profiles, err := r.svc.Matches(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

func (r *Registrar) matchSummaries(c *gin.Context) {
	summaries, err := r.svc.MatchSummaries(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}
