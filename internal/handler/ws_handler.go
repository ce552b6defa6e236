package handler

import (
	"net/http"

	"eventsync/internal/realtime"
	"eventsync/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WSHandler struct {
	hub        *realtime.Hub
	upgrader   websocket.Upgrader
	sendBuffer int
}

func NewWSHandler(hub *realtime.Hub, allowedOrigin string, sendBuffer int) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
		sendBuffer: sendBuffer,
	}
}

func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", h.Serve)
}

func (h *WSHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithComponent("ws").Warn("upgrade failed", zap.Error(err))
		return
	}

	client := realtime.NewClient(h.hub, conn, h.sendBuffer)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
