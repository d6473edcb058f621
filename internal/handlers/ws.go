package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/gobinath946/project-weaver-sub001/internal/logger"
	"github.com/gobinath946/project-weaver-sub001/internal/relay"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Token auth stands in for origin checks; browser clients connect
	// cross-origin from the SPA host.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WSHandler struct {
	hub *relay.Hub
}

func NewWSHandler(hub *relay.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Connect upgrades the request and binds the socket to the authenticated
// user. RequireAuth has already run; the upgrade is the last failure point.
func (h *WSHandler) Connect(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.FromGin(c).Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	relay.NewClient(h.hub, conn, p.UserID, p.CompanyID)
}

// Presence lists user ids currently connected in the caller's company.
func (h *WSHandler) Presence(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	ids, err := h.hub.Presence(c.Request.Context(), p.CompanyID)
	if err != nil {
		fail(c, err)
		return
	}
	if ids == nil {
		ids = []uint64{}
	}
	respondOK(c, gin.H{"online_user_ids": ids})
}
