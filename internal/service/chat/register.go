package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/winklab/wink-backend/internal/httperr"
)

// Registrar ties the messaging endpoints into the HTTP router.
type Registrar struct {
	svc *Service
}

// NewRegistrar creates a Registrar for an already-wired Service.
func NewRegistrar(svc *Service) *Registrar {
	return &Registrar{svc: svc}
}

// Register attaches the messaging routes to the given group.
func (r *Registrar) Register(rg *gin.RouterGroup) {
	rg.POST("/messages", r.send)
	rg.GET("/conversations/:key/messages", r.history)
}

type sendMessageRequest struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Body     string `json:"body"`
}

func (r *Registrar) send(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.InvalidInput("invalid request body"))
		return
	}
	m, err := r.svc.Send(c.Request.Context(), req.Sender, req.Receiver, req.Body)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (r *Registrar) history(c *gin.Context) {
	messages, err := r.svc.History(c.Request.Context(), c.Param("key"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}
